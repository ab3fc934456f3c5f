// Package sign signs and verifies Mina transactions. It ties the key,
// transaction and Schnorr packages together and is the only place that
// turns an arithmetic integrity failure into an error value.
package sign

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/schnorr"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
	"github.com/smallyu/go-mina-signer/internal/protocol/transaction"
)

var (
	ErrIntegrity      = schnorr.ErrIntegrity
	ErrSignerMismatch = errors.New("sign: fee payer is not the signing key")
	ErrNilInput       = errors.New("sign: nil key pair or transaction")
)

// Signer signs transactions. It holds no secrets and is safe for
// concurrent use.
type Signer struct {
	schnorr *schnorr.Signer
}

// New returns a Signer configured by opts.
func New(opts ...schnorr.Option) *Signer {
	return &Signer{schnorr: schnorr.New(opts...)}
}

// Sign signs tx with kp. The transaction's fee payer must be kp's public key.
func (s *Signer) Sign(kp *keys.Keypair, tx *transaction.Transaction) (*schnorr.Signature, error) {
	if kp == nil || tx == nil {
		return nil, ErrNilInput
	}
	if !tx.FeePayer.Equal(kp.PublicKey()) {
		return nil, ErrSignerMismatch
	}
	sig, err := s.schnorr.Sign(&kp.Priv, &kp.Pub, tx.ToROInput())
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", tx.Kind, err)
	}
	return sig, nil
}

// Verify reports whether sig authenticates tx under the compressed key pk.
// A key that does not decompress still runs the full check on a stand-in
// point, so every failure looks the same.
func (s *Signer) Verify(sig *schnorr.Signature, pk curves.Compressed, tx *transaction.Transaction) bool {
	if sig == nil || tx == nil {
		return false
	}
	var pub curves.Point
	valid := pub.Decompress(pk) == nil
	if !valid {
		pub = curves.Identity()
	}
	ok := s.schnorr.Verify(sig, &pub, tx.ToROInput())
	return ok && valid
}

// SignHex signs tx and returns the 128 character hex signature.
func (s *Signer) SignHex(kp *keys.Keypair, tx *transaction.Transaction) (string, error) {
	sig, err := s.Sign(kp, tx)
	if err != nil {
		return "", err
	}
	return sig.Hex(), nil
}

// VerifyHex parses sigHex and the signer address and verifies tx. Any
// malformed input yields false.
func (s *Signer) VerifyHex(sigHex, signer string, tx *transaction.Transaction) bool {
	sig, sigErr := schnorr.ParseSignature(sigHex)
	if sigErr != nil {
		sig = &schnorr.Signature{}
	}
	pk, addrErr := address.Decode(signer)
	ok := s.Verify(sig, pk, tx)
	return ok && sigErr == nil && addrErr == nil
}
