package schnorr

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
	"github.com/smallyu/go-mina-signer/internal/crypto/roinput"
)

// Network selects the domain separation prefix of the challenge hash.
type Network int

const (
	Testnet Network = iota
	Mainnet
)

var networkPrefixes = map[Network]string{
	Testnet: "CodaSignature*******",
	Mainnet: "MinaSignatureMainnet",
}

// ParseNetwork maps "testnet" or "mainnet" to a Network.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(s) {
	case "", "testnet":
		return Testnet, nil
	case "mainnet":
		return Mainnet, nil
	}
	return Testnet, fmt.Errorf("schnorr: unknown network %q", s)
}

func (n Network) String() string {
	if n == Mainnet {
		return "mainnet"
	}
	return "testnet"
}

// Prefix returns the 20 byte domain prefix for n.
func (n Network) Prefix() string {
	return networkPrefixes[n]
}

// Challenger binds a message, the signer's public key and the commitment
// x coordinate into the challenge scalar. Implementations must be
// deterministic and must not modify msg.
type Challenger interface {
	Challenge(msg *roinput.Input, pub *curves.Point, rx *field.Fp) field.Fq
}

// Blake2bChallenger hashes the prefix and the sponge form of (msg, pub.x,
// pub.y, rx) with BLAKE2b-256, each element as 32 big-endian bytes. The
// digest is read as a base field element and carried into the scalar field.
// It is deterministic but does not reproduce the sponge used on the Mina
// network.
type Blake2bChallenger struct {
	Network Network
}

func (c Blake2bChallenger) Challenge(msg *roinput.Input, pub *curves.Point, rx *field.Fp) field.Fq {
	in := msg.Clone()
	in.AddField(&pub.X).AddField(&pub.Y).AddField(rx)

	h, _ := blake2b.New256(nil)
	h.Write([]byte(c.Network.Prefix()))
	for _, x := range in.Fields() {
		b := x.Bytes()
		h.Write(b[:])
	}

	var d field.Fp
	_ = d.SetUint256(digestValue(h.Sum(nil)))
	var e field.Fq
	e.SetFp(&d)
	return e
}

// digestValue reads a 32 byte digest little-endian with the two most
// significant bits cleared, which lands below both p and q.
func digestValue(d []byte) *uint256.Int {
	var be [32]byte
	for i := 0; i < len(be) && i < len(d); i++ {
		be[31-i] = d[i]
	}
	be[0] &= 0x3f
	return new(uint256.Int).SetBytes32(be[:])
}

// scalarFromDigest maps a digest straight into the scalar field.
func scalarFromDigest(d []byte) field.Fq {
	v := digestValue(d)
	var s field.Fq
	_ = s.SetUint256(v)
	v.Clear()
	return s
}
