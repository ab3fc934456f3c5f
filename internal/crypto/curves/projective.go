package curves

import "github.com/smallyu/go-mina-signer/internal/crypto/field"

// projective is a point in homogeneous coordinates (X:Y:Z) with x = X/Z and
// y = Y/Z. The identity is (0:1:0). The formulas below are the complete
// ones of Renes, Costello and Batina for a = 0, so they need no special cases
// and the ladder runs the same operations for every scalar.
type projective struct {
	x, y, z field.Fp
}

func (r *projective) identity() {
	r.x.SetZero()
	r.y.SetOne()
	r.z.SetZero()
}

func (r *projective) fromAffine(a *Point) {
	if a.IsIdentity() {
		r.identity()
		return
	}
	r.x, r.y = a.X, a.Y
	r.z.SetOne()
}

func (r *projective) toAffine(p *Point) {
	if r.z.IsZero() {
		*p = Point{}
		return
	}
	var zinv field.Fp
	zinv.Inverse(&r.z)
	p.X.Mul(&r.x, &zinv)
	p.Y.Mul(&r.y, &zinv)
}

// add sets r = a + b.
func (r *projective) add(a, b *projective) {
	var t0, t1, t2, t3, t4, x3, y3, z3 field.Fp

	t0.Mul(&a.x, &b.x)
	t1.Mul(&a.y, &b.y)
	t2.Mul(&a.z, &b.z)
	t3.Add(&a.x, &a.y)
	t4.Add(&b.x, &b.y)
	t3.Mul(&t3, &t4)
	t4.Add(&t0, &t1)
	t3.Sub(&t3, &t4)
	t4.Add(&a.y, &a.z)
	x3.Add(&b.y, &b.z)
	t4.Mul(&t4, &x3)
	x3.Add(&t1, &t2)
	t4.Sub(&t4, &x3)
	x3.Add(&a.x, &a.z)
	y3.Add(&b.x, &b.z)
	x3.Mul(&x3, &y3)
	y3.Add(&t0, &t2)
	y3.Sub(&x3, &y3)
	x3.Double(&t0)
	t0.Add(&x3, &t0)
	t2.Mul(&curveB3, &t2)
	z3.Add(&t1, &t2)
	t1.Sub(&t1, &t2)
	y3.Mul(&curveB3, &y3)
	x3.Mul(&t4, &y3)
	t2.Mul(&t3, &t1)
	x3.Sub(&t2, &x3)
	y3.Mul(&y3, &t0)
	t1.Mul(&t1, &z3)
	y3.Add(&t1, &y3)
	t0.Mul(&t0, &t3)
	z3.Mul(&z3, &t4)
	z3.Add(&z3, &t0)

	r.x, r.y, r.z = x3, y3, z3
}

// double sets r = 2a.
func (r *projective) double(a *projective) {
	var t0, t1, t2, x3, y3, z3 field.Fp

	t0.Square(&a.y)
	z3.Double(&t0)
	z3.Double(&z3)
	z3.Double(&z3)
	t1.Mul(&a.y, &a.z)
	t2.Square(&a.z)
	t2.Mul(&curveB3, &t2)
	x3.Mul(&t2, &z3)
	y3.Add(&t0, &t2)
	z3.Mul(&t1, &z3)
	t1.Double(&t2)
	t2.Add(&t1, &t2)
	t0.Sub(&t0, &t2)
	y3.Mul(&t0, &y3)
	y3.Add(&x3, &y3)
	t1.Mul(&a.x, &a.y)
	x3.Mul(&t0, &t1)
	x3.Double(&x3)

	r.x, r.y, r.z = x3, y3, z3
}

// cswap exchanges a and b when bit is 1.
func cswap(a, b *projective, bit int) {
	var t projective
	t.x.Select(bit, &b.x, &a.x)
	t.y.Select(bit, &b.y, &a.y)
	t.z.Select(bit, &b.z, &a.z)
	b.x.Select(bit, &a.x, &b.x)
	b.y.Select(bit, &a.y, &b.y)
	b.z.Select(bit, &a.z, &b.z)
	*a = t
}

// ladder sets r = k * a with a Montgomery ladder over all 255 bits of k.
func (r *projective) ladder(k [4]uint64, a *projective) {
	var r0, r1 projective
	r0.identity()
	r1 = *a
	for i := 254; i >= 0; i-- {
		bit := int(k[i/64]>>(uint(i)%64)) & 1
		cswap(&r0, &r1, bit)
		r1.add(&r0, &r1)
		r0.double(&r0)
		cswap(&r0, &r1, bit)
	}
	*r = r0
}
