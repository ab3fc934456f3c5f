// Package schnorr implements the Schnorr signature scheme over Pallas used
// for Mina transactions. The commitment point is canonicalised to an even y
// so a signature is only (rx, s).
package schnorr

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
	"github.com/smallyu/go-mina-signer/internal/crypto/roinput"
)

// SignatureSize is the length of an encoded signature in bytes.
const SignatureSize = 64

// maxNonceAttempts bounds re-derivation after a zero nonce.
const maxNonceAttempts = 16

var (
	ErrInvalidSignature = errors.New("schnorr: invalid signature encoding")
	ErrZeroKey          = errors.New("schnorr: private key is zero")
	ErrIntegrity        = errors.New("schnorr: arithmetic integrity failure")
)

// Signature is a Schnorr signature.
// rx is the x coordinate of the commitment R = k*G, s = k + e*d.
type Signature struct {
	Rx field.Fp
	S  field.Fq
}

// Bytes returns rx || s, both big-endian.
func (sig *Signature) Bytes() [SignatureSize]byte {
	var out [SignatureSize]byte
	rx, s := sig.Rx.Bytes(), sig.S.Bytes()
	copy(out[:32], rx[:])
	copy(out[32:], s[:])
	return out
}

// Hex returns the 128 character hex encoding of Bytes.
func (sig *Signature) Hex() string {
	b := sig.Bytes()
	return hex.EncodeToString(b[:])
}

// SetBytes decodes rx || s. Components not below their modulus are rejected.
func (sig *Signature) SetBytes(b []byte) error {
	if len(b) != SignatureSize {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
	}
	var rx field.Fp
	var s field.Fq
	if err := rx.SetBytes(b[:32]); err != nil {
		return fmt.Errorf("%w: rx: %v", ErrInvalidSignature, err)
	}
	if err := s.SetBytes(b[32:]); err != nil {
		return fmt.Errorf("%w: s: %v", ErrInvalidSignature, err)
	}
	sig.Rx, sig.S = rx, s
	return nil
}

// ParseSignature decodes a 128 character hex signature.
func ParseSignature(h string) (*Signature, error) {
	if len(h) != 2*SignatureSize {
		return nil, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidSignature, 2*SignatureSize, len(h))
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	sig := new(Signature)
	if err := sig.SetBytes(b); err != nil {
		return nil, err
	}
	return sig, nil
}

// Signer signs and verifies random oracle inputs. The zero value is not
// usable; construct it with New.
type Signer struct {
	challenger Challenger
	nonce      NonceDeriver
}

// Option configures a Signer.
type Option func(*Signer)

// WithChallenger replaces the challenge function.
func WithChallenger(c Challenger) Option {
	return func(s *Signer) { s.challenger = c }
}

// WithNonce replaces the nonce derivation.
func WithNonce(n NonceDeriver) Option {
	return func(s *Signer) { s.nonce = n }
}

// WithNetwork selects the default challenger for network n.
func WithNetwork(n Network) Option {
	return func(s *Signer) { s.challenger = Blake2bChallenger{Network: n} }
}

// New returns a Signer using the BLAKE2b challenger for testnet and the
// BLAKE2b nonce unless overridden.
func New(opts ...Option) *Signer {
	s := &Signer{
		challenger: Blake2bChallenger{Network: Testnet},
		nonce:      Blake2bNonce{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Challenger returns the challenge function in use.
func (s *Signer) Challenger() Challenger {
	return s.challenger
}

// Sign produces a signature of msg under priv. pub must be priv*G.
// The signature is verified before it is returned.
func (s *Signer) Sign(priv *field.Fq, pub *curves.Point, msg *roinput.Input) (sig *Signature, err error) {
	if priv.IsZero() {
		return nil, ErrZeroKey
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*curves.IntegrityError)
			if !ok {
				panic(r)
			}
			sig, err = nil, fmt.Errorf("%w: %v", ErrIntegrity, ie)
		}
	}()

	// 1. Derive nonce k
	var k field.Fq
	for counter := uint32(0); ; counter++ {
		if counter == maxNonceAttempts {
			return nil, fmt.Errorf("%w: nonce derivation kept producing zero", ErrIntegrity)
		}
		k = s.nonce.Nonce(priv, pub, msg, counter)
		if !k.IsZero() {
			break
		}
	}
	defer k.SetZero()

	// 2. Compute R = k * G, negate k if R.y is odd
	var r curves.Point
	r.ScalarBaseMult(&k)
	r.MustOnCurve("commitment")
	if r.Y.IsOdd() {
		k.Neg(&k)
	}

	// 3. Compute challenge e = H(msg, pub, rx)
	e := s.challenger.Challenge(msg, pub, &r.X)

	// 4. Compute s = k + e * d mod q
	var resp field.Fq
	resp.Mul(&e, priv).Add(&resp, &k)

	sig = &Signature{Rx: r.X, S: resp}
	if !s.Verify(sig, pub, msg) {
		return nil, fmt.Errorf("%w: signature failed self-verification", ErrIntegrity)
	}
	return sig, nil
}

// Verify checks sig against msg and the public key. Any malformed input
// yields false. An invalid key is replaced by the generator so the work done
// does not depend on which input was bad.
func (s *Signer) Verify(sig *Signature, pub *curves.Point, msg *roinput.Input) bool {
	if sig == nil || pub == nil || msg == nil {
		return false
	}

	key := *pub
	valid := !key.IsIdentity() && key.IsOnCurve()
	if !valid {
		key = curves.Generator()
	}

	// 1. Compute challenge e = H(msg, pub, rx)
	e := s.challenger.Challenge(msg, &key, &sig.Rx)

	// 2. Compute R' = s*G - e*P
	var sg, ep, r curves.Point
	sg.ScalarBaseMult(&sig.S)
	ep.ScalarMult(&e, &key)
	r.Sub(&sg, &ep)

	// 3. Accept iff R'.x == rx and R'.y is even
	ok := !r.IsIdentity() && r.X.Equal(&sig.Rx) && !r.Y.IsOdd()
	return ok && valid
}
