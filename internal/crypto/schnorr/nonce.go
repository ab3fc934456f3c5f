package schnorr

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
	"github.com/smallyu/go-mina-signer/internal/crypto/roinput"
)

// NonceDeriver produces the per message secret k. It must be a function of
// the private key and the message only. The counter is non-zero only when an
// earlier attempt for the same message produced k = 0.
type NonceDeriver interface {
	Nonce(priv *field.Fq, pub *curves.Point, msg *roinput.Input, counter uint32) field.Fq
}

// ParseNonce maps "blake2b" (the default) or "rfc6979" to a NonceDeriver.
func ParseNonce(s string) (NonceDeriver, error) {
	switch strings.ToLower(s) {
	case "", "blake2b":
		return Blake2bNonce{}, nil
	case "rfc6979":
		return RFC6979Nonce{}, nil
	}
	return nil, fmt.Errorf("schnorr: unknown nonce derivation %q", s)
}

// Blake2bNonce derives k as BLAKE2b-256 over the packed message extended by
// the public key coordinates and the private scalar.
type Blake2bNonce struct{}

func (Blake2bNonce) Nonce(priv *field.Fq, pub *curves.Point, msg *roinput.Input, counter uint32) field.Fq {
	in := msg.Clone()
	in.AddField(&pub.X).AddField(&pub.Y).AddScalar(priv)
	if counter > 0 {
		in.AddUint32(counter)
	}

	packed := in.Bytes()
	d := blake2b.Sum256(packed)
	for i := range packed {
		packed[i] = 0
	}
	return scalarFromDigest(d[:])
}

var scalarModulus = uint256.MustFromBig(field.FqModulus())

// rfc6979Version is the 16 byte version tag mixed into the HMAC-DRBG seed.
var rfc6979Version = []byte("pallas/schnorr/1")

// RFC6979Nonce derives k with the RFC 6979 HMAC-DRBG keyed by the private
// key over SHA-256 of the packed message, reduced mod q.
type RFC6979Nonce struct{}

func (RFC6979Nonce) Nonce(priv *field.Fq, pub *curves.Point, msg *roinput.Input, counter uint32) field.Fq {
	in := msg.Clone()
	in.AddField(&pub.X).AddField(&pub.Y)
	hash := sha256.Sum256(in.Bytes())

	key := priv.Bytes()
	k := secp256k1.NonceRFC6979(key[:], hash[:], nil, rfc6979Version, counter)
	kb := k.Bytes()
	k.Zero()
	for i := range key {
		key[i] = 0
	}

	v := new(uint256.Int).SetBytes32(kb[:])
	v.Mod(v, scalarModulus)
	var s field.Fq
	_ = s.SetUint256(v)
	v.Clear()
	for i := range kb {
		kb[i] = 0
	}
	return s
}
