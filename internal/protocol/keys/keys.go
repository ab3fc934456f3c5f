// Package keys parses Mina private keys and derives key pairs.
//
// A private key is a 64 character big-endian hex string. Its two most
// significant bits must be clear, which keeps every key inside the scalar
// field; keys outside that range are rejected, never reduced.
package keys

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
)

// PrivateKeyHexLen is the length of a hex encoded private key.
const PrivateKeyHexLen = 64

var (
	ErrInvalidKey = errors.New("keys: invalid private key")
)

// ParsePrivateKey decodes a private key hex string into a scalar.
func ParsePrivateKey(h string) (field.Fq, error) {
	var d field.Fq
	if len(h) != PrivateKeyHexLen {
		return d, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidKey, PrivateKeyHexLen, len(h))
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	defer clear(b)

	if b[0]&0xc0 != 0 {
		return d, fmt.Errorf("%w: top two bits set", ErrInvalidKey)
	}
	if err := d.SetBytes(b); err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if d.IsZero() {
		return d, fmt.Errorf("%w: zero", ErrInvalidKey)
	}
	return d, nil
}

// FormatPrivateKey returns the 64 character lowercase hex form of d.
func FormatPrivateKey(d *field.Fq) string {
	return d.Hex()
}

// Keypair is a private scalar together with its public point.
type Keypair struct {
	Priv field.Fq
	Pub  curves.Point
}

// FromScalar derives the key pair of d.
func FromScalar(d field.Fq) (*Keypair, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: zero", ErrInvalidKey)
	}
	if b := d.Bytes(); b[0]&0xc0 != 0 {
		return nil, fmt.Errorf("%w: top two bits set", ErrInvalidKey)
	}
	kp := &Keypair{Priv: d}
	kp.Pub.ScalarBaseMult(&kp.Priv)
	return kp, nil
}

// FromHex parses h and derives its key pair.
func FromHex(h string) (*Keypair, error) {
	d, err := ParsePrivateKey(h)
	if err != nil {
		return nil, err
	}
	kp, err := FromScalar(d)
	d.SetZero()
	return kp, err
}

// Generate creates a key pair from a fresh random scalar.
func Generate() (*Keypair, error) {
	d, err := curves.NewPallas().NewScalar()
	if err != nil {
		return nil, err
	}
	kp, err := FromScalar(d)
	d.SetZero()
	return kp, err
}

// PublicKey returns the compressed public key.
func (kp *Keypair) PublicKey() curves.Compressed {
	return kp.Pub.Compress()
}

// PrivateHex returns the private key in its hex form.
func (kp *Keypair) PrivateHex() string {
	return FormatPrivateKey(&kp.Priv)
}

// Zero overwrites the private scalar. The key pair must not be used to sign
// afterwards.
func (kp *Keypair) Zero() {
	kp.Priv.SetZero()
}

// String never prints the private key.
func (kp *Keypair) String() string {
	return fmt.Sprintf("Keypair{pub: %s}", kp.Pub.X.Hex())
}
