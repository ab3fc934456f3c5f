// Package signer is the public API for deriving Mina addresses and signing
// legacy payments and delegations.
package signer

import (
	"fmt"
	"strconv"

	"github.com/smallyu/go-mina-signer/internal/crypto/schnorr"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
	"github.com/smallyu/go-mina-signer/internal/protocol/sign"
	"github.com/smallyu/go-mina-signer/internal/protocol/transaction"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

var (
	_ Signer   = (*KeySigner)(nil)
	_ Verifier = (*TxVerifier)(nil)
)

type options struct {
	network string
	nonce   string
	epochs  int
}

// Option configures New and NewVerifier.
type Option func(*options)

// WithNetwork selects "testnet" (default) or "mainnet" domain separation.
func WithNetwork(network string) Option {
	return func(o *options) { o.network = network }
}

// WithNonce selects "blake2b" (default) or "rfc6979" nonce derivation.
func WithNonce(nonce string) Option {
	return func(o *options) { o.nonce = nonce }
}

// WithSelftestEpochs sets the size of the startup self-test. Only the first
// self-test in a process runs.
func WithSelftestEpochs(n int) Option {
	return func(o *options) { o.epochs = n }
}

func build(opts []Option) (*sign.Signer, error) {
	o := options{epochs: selftest.DefaultEpochs}
	for _, opt := range opts {
		opt(&o)
	}

	if o.epochs <= 0 {
		return nil, NewInputError("selftest_epochs", strconv.Itoa(o.epochs), selftest.ErrEpochs)
	}
	n, err := schnorr.ParseNetwork(o.network)
	if err != nil {
		return nil, NewInputError("network", o.network, err)
	}
	nonce, err := schnorr.ParseNonce(o.nonce)
	if err != nil {
		return nil, NewInputError("nonce", o.nonce, err)
	}

	if err := selftest.Gate(o.epochs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSelftest, err)
	}
	return sign.New(schnorr.WithNetwork(n), schnorr.WithNonce(nonce)), nil
}

// KeySigner signs with one private key.
type KeySigner struct {
	kp     *keys.Keypair
	addr   string
	signer *sign.Signer
}

// New returns a signer for the 64 character hex private key privHex. The
// arithmetic self-test runs before the first signer of the process is
// returned.
func New(privHex string, opts ...Option) (*KeySigner, error) {
	s, err := build(opts)
	if err != nil {
		return nil, err
	}
	kp, err := keys.FromHex(privHex)
	if err != nil {
		return nil, NewInputError("private_key", "cannot parse", ErrInvalidKey)
	}
	return &KeySigner{
		kp:     kp,
		addr:   address.Encode(kp.PublicKey()),
		signer: s,
	}, nil
}

func (k *KeySigner) Address() string {
	return k.addr
}

func (k *KeySigner) Sign(tx Transaction) (string, error) {
	t, err := toInternal(k.addr, tx)
	if err != nil {
		return "", err
	}
	return k.signer.SignHex(k.kp, t)
}

// Zero wipes the private key. The signer is unusable afterwards.
func (k *KeySigner) Zero() {
	k.kp.Zero()
}

// TxVerifier verifies signatures for any sender.
type TxVerifier struct {
	signer *sign.Signer
}

// NewVerifier returns a verifier configured like New.
func NewVerifier(opts ...Option) (*TxVerifier, error) {
	s, err := build(opts)
	if err != nil {
		return nil, err
	}
	return &TxVerifier{signer: s}, nil
}

func (v *TxVerifier) Verify(from string, tx Transaction, signature string) bool {
	t, err := toInternal(from, tx)
	if err != nil {
		return false
	}
	return v.signer.VerifyHex(signature, from, t)
}

// Address derives the address of a hex private key.
func Address(privHex string) (string, error) {
	kp, err := keys.FromHex(privHex)
	if err != nil {
		return "", NewInputError("private_key", "cannot parse", ErrInvalidKey)
	}
	defer kp.Zero()
	return address.Encode(kp.PublicKey()), nil
}

// GenerateKey returns a fresh random private key and its address.
func GenerateKey() (privHex, addr string, err error) {
	kp, err := keys.Generate()
	if err != nil {
		return "", "", err
	}
	defer kp.Zero()
	return kp.PrivateHex(), address.Encode(kp.PublicKey()), nil
}

// ValidAddress reports whether s is a well formed address of a curve point.
func ValidAddress(s string) bool {
	return address.Valid(s)
}

func toInternal(from string, tx Transaction) (*transaction.Transaction, error) {
	p := transaction.Params{
		From:       from,
		To:         tx.To,
		Amount:     tx.Amount,
		Fee:        tx.Fee,
		Nonce:      tx.Nonce,
		ValidUntil: tx.ValidUntil,
		Memo:       tx.Memo,
	}

	var (
		t   *transaction.Transaction
		err error
	)
	switch tx.Kind {
	case "", KindPayment:
		t, err = transaction.NewPayment(p)
	case KindDelegation:
		t, err = transaction.NewDelegation(p)
	default:
		return nil, NewInputError("kind", tx.Kind, ErrInvalidKind)
	}
	if err != nil {
		return nil, NewInputError("address", err.Error(), ErrInvalidAddress)
	}
	return t, nil
}
