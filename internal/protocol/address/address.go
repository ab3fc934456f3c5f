// Package address converts Pallas public keys to and from Mina's base58check
// text form.
//
// The checked payload is
//
//	0xcb | 0x01 | 0x01 | x (32 bytes, little-endian) | parity of y
//
// followed by the first four bytes of SHA-256(SHA-256(payload)). Every
// address is 55 characters long and starts with "B62q".
package address

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/smallyu/go-mina-signer/internal/crypto/checksum"
	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
)

const (
	// Length is the length of every encoded address.
	Length = 55

	// Prefix is the leading text shared by all addresses.
	Prefix = "B62q"

	versionPublicKey  = 0xcb
	versionNonZero    = 0x01
	versionCompressed = 0x01

	payloadLen = 3 + 32 + 1
	rawLen     = payloadLen + checksum.Size
)

// Encode returns the address of a compressed public key.
func Encode(pk curves.Compressed) string {
	var payload [payloadLen]byte
	payload[0] = versionPublicKey
	payload[1] = versionNonZero
	payload[2] = versionCompressed
	x := pk.X.BytesLE()
	copy(payload[3:35], x[:])
	if pk.IsOdd {
		payload[35] = 1
	}
	return base58.Encode(checksum.Append(payload[:]))
}

// FromPoint returns the address of an affine public key.
func FromPoint(p *curves.Point) (string, error) {
	if p.IsIdentity() {
		return "", addressError(ErrIdentity, "address: the identity has no address")
	}
	if !p.IsOnCurve() {
		return "", addressError(ErrNotOnCurve, "address: public key is not on the curve")
	}
	return Encode(p.Compress()), nil
}

// Decode parses an address into a compressed public key. It fails on any
// malformed input, including keys whose x coordinate is not on the curve.
func Decode(s string) (curves.Compressed, error) {
	var pk curves.Compressed
	if len(s) != Length {
		return pk, addressError(ErrLength, fmt.Sprintf("address: length %d, want %d", len(s), Length))
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return pk, addressError(ErrBase58, fmt.Sprintf("address: %v", err))
	}
	if len(raw) != rawLen {
		return pk, addressError(ErrLength, fmt.Sprintf("address: decoded length %d, want %d", len(raw), rawLen))
	}
	payload, ok := checksum.Split(raw)
	if !ok {
		return pk, addressError(ErrChecksum, "address: checksum mismatch")
	}
	if payload[0] != versionPublicKey || payload[1] != versionNonZero || payload[2] != versionCompressed {
		return pk, addressError(ErrVersion, fmt.Sprintf("address: version bytes %x", payload[:3]))
	}
	if payload[35] > 1 {
		return pk, addressError(ErrParity, fmt.Sprintf("address: parity byte %d", payload[35]))
	}

	var x field.Fp
	if err := x.SetBytesLE(payload[3:35]); err != nil {
		return pk, addressError(ErrCoordinate, "address: x coordinate not below p")
	}
	pk = curves.Compressed{X: x, IsOdd: payload[35] == 1}

	var p curves.Point
	if err := p.Decompress(pk); err != nil {
		return curves.Compressed{}, addressError(ErrNotOnCurve, "address: x coordinate is not on the curve")
	}
	return pk, nil
}

// ToPoint parses an address and recovers the full public key.
func ToPoint(s string) (curves.Point, error) {
	var p curves.Point
	pk, err := Decode(s)
	if err != nil {
		return p, err
	}
	// Decode already checked the point exists
	_ = p.Decompress(pk)
	return p, nil
}

// Valid reports whether s is a well formed address.
func Valid(s string) bool {
	_, err := Decode(s)
	return err == nil
}
