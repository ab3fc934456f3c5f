package signer

import "errors"

// Errors returned by the signer API. Input problems arrive wrapped in an
// *InputError naming the field.
var (
	ErrInvalidKey       = errors.New("invalid private key")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrSelftest         = errors.New("arithmetic self-test failed")
)

// Transaction kinds.
const (
	KindPayment    = "payment"
	KindDelegation = "delegation"
)

// Transaction is a legacy payment or delegation. The sender is implied by
// the signing key.
type Transaction struct {
	// Kind is KindPayment (also the empty string) or KindDelegation.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// To is the receiver address, or the delegate for a delegation.
	To string `json:"to" yaml:"to"`

	// Amount in nanomina. Ignored for delegations.
	Amount     uint64 `json:"amount" yaml:"amount"`
	Fee        uint64 `json:"fee" yaml:"fee"`
	Nonce      uint32 `json:"nonce" yaml:"nonce"`
	ValidUntil uint32 `json:"valid_until" yaml:"valid_until"`

	// Memo is truncated to 32 bytes.
	Memo string `json:"memo,omitempty" yaml:"memo,omitempty"`
}

// Signer produces transaction signatures for one key.
type Signer interface {
	// Address returns the base58check address of the signing key.
	Address() string

	// Sign returns the 128 character hex signature of tx sent from Address.
	Sign(tx Transaction) (string, error)
}

// Verifier checks transaction signatures.
type Verifier interface {
	// Verify reports whether signature authenticates tx sent from the
	// address from. Malformed input yields false.
	Verify(from string, tx Transaction, signature string) bool
}
