package field

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Fq is an element of the Pallas scalar field, held in Montgomery form.
// The zero value is the field element 0.
type Fq [4]uint64

// FqModulus returns q as a big integer.
func FqModulus() *big.Int {
	b := wordsToBE(qMod.n)
	return new(big.Int).SetBytes(b[:])
}

// NewFq returns the element with canonical value v.
func NewFq(v uint64) Fq {
	var z Fq
	z.SetUint64(v)
	return z
}

func (z *Fq) limbs() *[4]uint64 { return (*[4]uint64)(z) }

// Set sets z = x and returns z.
func (z *Fq) Set(x *Fq) *Fq {
	*z = *x
	return z
}

// SetZero sets z = 0 and returns z.
func (z *Fq) SetZero() *Fq {
	*z = Fq{}
	return z
}

// SetOne sets z = 1 and returns z.
func (z *Fq) SetOne() *Fq {
	*z = Fq(qMod.r)
	return z
}

// SetUint64 sets z to the canonical value v and returns z.
func (z *Fq) SetUint64(v uint64) *Fq {
	toMont(z.limbs(), &[4]uint64{v}, qMod)
	return z
}

// SetCanonical converts little-endian canonical words into Montgomery form.
// Words that encode a value >= q are rejected and z is left unchanged.
func (z *Fq) SetCanonical(w [4]uint64) error {
	if !lessThan(&w, &qMod.n) {
		return ErrNotCanonical
	}
	toMont(z.limbs(), &w, qMod)
	return nil
}

// SetReduced sets z to w mod q for any 256-bit w.
func (z *Fq) SetReduced(w [4]uint64) *Fq {
	toMont(z.limbs(), &w, qMod)
	return z
}

// Canonical returns the little-endian words of the integer represented by z.
func (z *Fq) Canonical() [4]uint64 {
	var w [4]uint64
	fromMont(&w, z.limbs(), qMod)
	return w
}

// SetBytes decodes a 32-byte big-endian canonical integer.
func (z *Fq) SetBytes(b []byte) error {
	if len(b) != 32 {
		return fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidEncoding, len(b))
	}
	return z.SetCanonical(wordsFromBE(b))
}

// Bytes returns the 32-byte big-endian canonical encoding of z.
func (z *Fq) Bytes() [32]byte {
	return wordsToBE(z.Canonical())
}

// SetBytesLE decodes a 32-byte little-endian canonical integer.
func (z *Fq) SetBytesLE(b []byte) error {
	if len(b) != 32 {
		return fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidEncoding, len(b))
	}
	return z.SetCanonical(wordsFromLE(b))
}

// BytesLE returns the 32-byte little-endian canonical encoding of z.
func (z *Fq) BytesLE() [32]byte {
	return wordsToLE(z.Canonical())
}

// SetHex parses a big-endian hex string of at most 64 digits.
func (z *Fq) SetHex(s string) error {
	b, err := parseHex(s)
	if err != nil {
		return err
	}
	return z.SetBytes(b[:])
}

// Hex returns the 64-digit big-endian hex encoding of z.
func (z *Fq) Hex() string {
	b := z.Bytes()
	return fmt.Sprintf("%x", b[:])
}

func (z Fq) String() string {
	return z.Hex()
}

// SetBigInt sets z = v. Negative values and values >= q are rejected.
func (z *Fq) SetBigInt(v *big.Int) error {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return ErrNotCanonical
	}
	var buf [32]byte
	v.FillBytes(buf[:])
	return z.SetBytes(buf[:])
}

// BigInt returns the canonical value of z.
func (z *Fq) BigInt() *big.Int {
	b := z.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// SetUint256 sets z = v, rejecting v >= q.
func (z *Fq) SetUint256(v *uint256.Int) error {
	return z.SetCanonical([4]uint64(*v))
}

// Add sets z = x + y and returns z.
func (z *Fq) Add(x, y *Fq) *Fq {
	modAdd(z.limbs(), x.limbs(), y.limbs(), qMod)
	return z
}

// Double sets z = 2x and returns z.
func (z *Fq) Double(x *Fq) *Fq {
	modAdd(z.limbs(), x.limbs(), x.limbs(), qMod)
	return z
}

// Sub sets z = x - y and returns z.
func (z *Fq) Sub(x, y *Fq) *Fq {
	modSub(z.limbs(), x.limbs(), y.limbs(), qMod)
	return z
}

// Neg sets z = -x and returns z.
func (z *Fq) Neg(x *Fq) *Fq {
	modNeg(z.limbs(), x.limbs(), qMod)
	return z
}

// Mul sets z = x * y and returns z.
func (z *Fq) Mul(x, y *Fq) *Fq {
	montMul(z.limbs(), x.limbs(), y.limbs(), qMod)
	return z
}

// Square sets z = x * x and returns z.
func (z *Fq) Square(x *Fq) *Fq {
	montMul(z.limbs(), x.limbs(), x.limbs(), qMod)
	return z
}

// Exp sets z = x^e for canonical little-endian exponent words.
func (z *Fq) Exp(x *Fq, e [4]uint64) *Fq {
	montExp(z.limbs(), x.limbs(), e, qMod)
	return z
}

// Inverse sets z = 1/x by Fermat's little theorem. The inverse of 0 is 0.
func (z *Fq) Inverse(x *Fq) *Fq {
	montExp(z.limbs(), x.limbs(), qMod.nMinus2, qMod)
	return z
}

// Sqrt sets z to a square root of x and reports whether one exists. When it
// does not, z is left unchanged. Runs in variable time.
func (z *Fq) Sqrt(x *Fq) bool {
	var r [4]uint64
	if !montSqrt(&r, x.limbs(), qMod) {
		return false
	}
	*z = Fq(r)
	return true
}

// Select sets z = a if cond == 1 and z = b if cond == 0, in constant time.
func (z *Fq) Select(cond int, a, b *Fq) *Fq {
	selectLimbs(z.limbs(), a.limbs(), b.limbs(), cond)
	return z
}

// Equal reports whether z == x.
func (z *Fq) Equal(x *Fq) bool {
	return equal(z.limbs(), x.limbs())
}

// IsZero reports whether z == 0.
func (z *Fq) IsZero() bool {
	return isZero(z.limbs())
}

// IsOne reports whether z == 1.
func (z *Fq) IsOne() bool {
	return equal(z.limbs(), &qMod.r)
}

// IsOdd reports whether the canonical value of z is odd.
func (z *Fq) IsOdd() bool {
	return z.Canonical()[0]&1 == 1
}

// SetFp reduces a base field element into the scalar field. Since p < q the
// canonical value carries over unchanged.
func (z *Fq) SetFp(x *Fp) *Fq {
	return z.SetReduced(x.Canonical())
}
