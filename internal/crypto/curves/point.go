package curves

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-mina-signer/internal/crypto/field"
)

var (
	// ErrNotOnCurve is returned when coordinates do not satisfy y^2 = x^3 + 5.
	ErrNotOnCurve = errors.New("curves: point not on curve")
)

var (
	curveB  = field.NewFp(5)
	curveB3 = field.NewFp(15)

	generator = Point{X: field.NewFp(1), Y: mustFp("1b74b5a30a12937c53dfa9f06378ee548f655bd4333d477119cf7a23caed2abb")}
)

func mustFp(h string) field.Fp {
	var x field.Fp
	if err := x.SetHex(h); err != nil {
		panic(err)
	}
	return x
}

// Point is an affine point on Pallas. The pair (0, 0) is never on the curve
// and encodes the identity.
type Point struct {
	X, Y field.Fp
}

// Compressed is a public key in compressed form: the x coordinate plus the
// parity of y.
type Compressed struct {
	X     field.Fp
	IsOdd bool
}

// IntegrityError reports an internally produced point that left the curve.
// It means the field or group implementation is broken.
type IntegrityError struct {
	Op    string
	Point Point
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("curves: %s produced off-curve point (%s, %s)", e.Op, e.Point.X.Hex(), e.Point.Y.Hex())
}

// Identity returns the neutral element.
func Identity() Point {
	return Point{}
}

// Generator returns the fixed base point G.
func Generator() Point {
	return generator
}

func (p *Point) IsIdentity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// IsOnCurve reports whether p satisfies the curve equation. The identity is
// considered on the curve.
func (p *Point) IsOnCurve() bool {
	if p.IsIdentity() {
		return true
	}
	var lhs, rhs field.Fp
	lhs.Square(&p.Y)
	rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &curveB)
	return lhs.Equal(&rhs)
}

// MustOnCurve panics with an *IntegrityError if p is off the curve.
func (p *Point) MustOnCurve(op string) {
	if !p.IsOnCurve() {
		panic(&IntegrityError{Op: op, Point: *p})
	}
}

// Equal reports whether p and a are the same point.
func (p *Point) Equal(a *Point) bool {
	return p.X.Equal(&a.X) && p.Y.Equal(&a.Y)
}

// Set sets p = a and returns p.
func (p *Point) Set(a *Point) *Point {
	*p = *a
	return p
}

// Neg sets p = -a and returns p.
func (p *Point) Neg(a *Point) *Point {
	if a.IsIdentity() {
		*p = Point{}
		return p
	}
	p.X = a.X
	p.Y.Neg(&a.Y)
	return p
}

// Double sets p = 2a and returns p.
func (p *Point) Double(a *Point) *Point {
	if a.IsIdentity() || a.Y.IsZero() {
		*p = Point{}
		return p
	}

	// lambda = 3x^2 / 2y
	var num, den, lambda field.Fp
	num.Square(&a.X)
	lambda.Double(&num)
	num.Add(&lambda, &num)
	den.Double(&a.Y).Inverse(&den)
	lambda.Mul(&num, &den)

	var x3, y3 field.Fp
	x3.Square(&lambda).Sub(&x3, &a.X).Sub(&x3, &a.X)
	y3.Sub(&a.X, &x3).Mul(&y3, &lambda).Sub(&y3, &a.Y)

	p.X, p.Y = x3, y3
	return p
}

// Add sets p = a + b and returns p. Runs in variable time; use ScalarMult
// for anything involving secrets.
func (p *Point) Add(a, b *Point) *Point {
	switch {
	case a.IsIdentity():
		*p = *b
		return p
	case b.IsIdentity():
		*p = *a
		return p
	case a.X.Equal(&b.X):
		if a.Y.Equal(&b.Y) {
			return p.Double(a)
		}
		*p = Point{}
		return p
	}

	var num, den, lambda field.Fp
	num.Sub(&b.Y, &a.Y)
	den.Sub(&b.X, &a.X).Inverse(&den)
	lambda.Mul(&num, &den)

	var x3, y3 field.Fp
	x3.Square(&lambda).Sub(&x3, &a.X).Sub(&x3, &b.X)
	y3.Sub(&a.X, &x3).Mul(&y3, &lambda).Sub(&y3, &a.Y)

	p.X, p.Y = x3, y3
	return p
}

// Sub sets p = a - b and returns p.
func (p *Point) Sub(a, b *Point) *Point {
	var nb Point
	nb.Neg(b)
	return p.Add(a, &nb)
}

// ScalarMult sets p = k * a and returns p. The sequence of field operations
// does not depend on k.
func (p *Point) ScalarMult(k *field.Fq, a *Point) *Point {
	var r projective
	r.fromAffine(a)
	r.ladder(k.Canonical(), &r)
	r.toAffine(p)
	return p
}

// ScalarBaseMult sets p = k * G and returns p.
func (p *Point) ScalarBaseMult(k *field.Fq) *Point {
	return p.ScalarMult(k, &generator)
}

// Compress returns the compressed form of p.
func (p *Point) Compress() Compressed {
	return Compressed{X: p.X, IsOdd: p.Y.IsOdd()}
}

// Decompress recovers the point with x coordinate c.X and the given y parity.
// It fails with ErrNotOnCurve when x^3 + 5 has no square root; in particular
// the identity has no compressed form.
func (p *Point) Decompress(c Compressed) error {
	var rhs, y field.Fp
	rhs.Square(&c.X).Mul(&rhs, &c.X).Add(&rhs, &curveB)
	if !y.Sqrt(&rhs) {
		return ErrNotOnCurve
	}
	if y.IsOdd() != c.IsOdd {
		y.Neg(&y)
	}
	p.X, p.Y = c.X, y
	return nil
}

// Equal reports whether c and d encode the same key.
func (c Compressed) Equal(d Compressed) bool {
	return c.IsOdd == d.IsOdd && c.X.Equal(&d.X)
}
