package curves

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/smallyu/go-mina-signer/internal/crypto/field"
)

// Curve defines the group operations needed by the signer.
type Curve interface {
	// Name returns the name of the curve.
	Name() string

	// Order returns the order of the group generated by Generator.
	Order() *big.Int

	// Generator returns the fixed base point G.
	Generator() Point

	// NewScalar generates a random scalar in [1, q) whose two most
	// significant bits are clear, the range accepted for private keys.
	NewScalar() (field.Fq, error)

	// ScalarBaseMult computes k * G
	ScalarBaseMult(k *field.Fq) Point

	// ScalarMult computes k * P
	ScalarMult(p *Point, k *field.Fq) Point

	// Add combines two points
	Add(a, b *Point) Point
}

// Pallas is the prime order curve y^2 = x^3 + 5 over Fp.
type Pallas struct{}

func (c *Pallas) Name() string {
	return "pallas"
}

func (c *Pallas) Order() *big.Int {
	return field.FqModulus()
}

func (c *Pallas) Generator() Point {
	return Generator()
}

func (c *Pallas) NewScalar() (field.Fq, error) {
	var k field.Fq
	var buf [32]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return k, fmt.Errorf("curves: read random scalar: %w", err)
		}
		buf[0] &= 0x3f
		if err := k.SetBytes(buf[:]); err != nil {
			continue
		}
		if !k.IsZero() {
			return k, nil
		}
	}
}

func (c *Pallas) ScalarBaseMult(k *field.Fq) Point {
	var r Point
	r.ScalarBaseMult(k)
	return r
}

func (c *Pallas) ScalarMult(p *Point, k *field.Fq) Point {
	var r Point
	r.ScalarMult(k, p)
	return r
}

func (c *Pallas) Add(a, b *Point) Point {
	var r Point
	r.Add(a, b)
	return r
}

// NewPallas returns a new instance of the Pallas curve.
func NewPallas() Curve {
	return &Pallas{}
}
