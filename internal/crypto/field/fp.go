package field

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Fp is an element of the Pallas base field, held in Montgomery form.
// The zero value is the field element 0.
type Fp [4]uint64

// FpModulus returns p as a big integer.
func FpModulus() *big.Int {
	b := wordsToBE(pMod.n)
	return new(big.Int).SetBytes(b[:])
}

// NewFp returns the element with canonical value v.
func NewFp(v uint64) Fp {
	var z Fp
	z.SetUint64(v)
	return z
}

func (z *Fp) limbs() *[4]uint64 { return (*[4]uint64)(z) }

// Set sets z = x and returns z.
func (z *Fp) Set(x *Fp) *Fp {
	*z = *x
	return z
}

// SetZero sets z = 0 and returns z.
func (z *Fp) SetZero() *Fp {
	*z = Fp{}
	return z
}

// SetOne sets z = 1 and returns z.
func (z *Fp) SetOne() *Fp {
	*z = Fp(pMod.r)
	return z
}

// SetUint64 sets z to the canonical value v and returns z.
func (z *Fp) SetUint64(v uint64) *Fp {
	toMont(z.limbs(), &[4]uint64{v}, pMod)
	return z
}

// SetCanonical converts little-endian canonical words into Montgomery form.
// Words that encode a value >= p are rejected and z is left unchanged.
func (z *Fp) SetCanonical(w [4]uint64) error {
	if !lessThan(&w, &pMod.n) {
		return ErrNotCanonical
	}
	toMont(z.limbs(), &w, pMod)
	return nil
}

// SetReduced sets z to w mod p for any 256-bit w.
func (z *Fp) SetReduced(w [4]uint64) *Fp {
	toMont(z.limbs(), &w, pMod)
	return z
}

// Canonical returns the little-endian words of the integer represented by z.
func (z *Fp) Canonical() [4]uint64 {
	var w [4]uint64
	fromMont(&w, z.limbs(), pMod)
	return w
}

// SetBytes decodes a 32-byte big-endian canonical integer.
func (z *Fp) SetBytes(b []byte) error {
	if len(b) != 32 {
		return fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidEncoding, len(b))
	}
	return z.SetCanonical(wordsFromBE(b))
}

// Bytes returns the 32-byte big-endian canonical encoding of z.
func (z *Fp) Bytes() [32]byte {
	return wordsToBE(z.Canonical())
}

// SetBytesLE decodes a 32-byte little-endian canonical integer.
func (z *Fp) SetBytesLE(b []byte) error {
	if len(b) != 32 {
		return fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidEncoding, len(b))
	}
	return z.SetCanonical(wordsFromLE(b))
}

// BytesLE returns the 32-byte little-endian canonical encoding of z.
func (z *Fp) BytesLE() [32]byte {
	return wordsToLE(z.Canonical())
}

// SetHex parses a big-endian hex string of at most 64 digits.
func (z *Fp) SetHex(s string) error {
	b, err := parseHex(s)
	if err != nil {
		return err
	}
	return z.SetBytes(b[:])
}

// Hex returns the 64-digit big-endian hex encoding of z.
func (z *Fp) Hex() string {
	b := z.Bytes()
	return fmt.Sprintf("%x", b[:])
}

func (z Fp) String() string {
	return z.Hex()
}

// SetBigInt sets z = v. Negative values and values >= p are rejected.
func (z *Fp) SetBigInt(v *big.Int) error {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return ErrNotCanonical
	}
	var buf [32]byte
	v.FillBytes(buf[:])
	return z.SetBytes(buf[:])
}

// BigInt returns the canonical value of z.
func (z *Fp) BigInt() *big.Int {
	b := z.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// SetUint256 sets z = v, rejecting v >= p.
func (z *Fp) SetUint256(v *uint256.Int) error {
	return z.SetCanonical([4]uint64(*v))
}

// Add sets z = x + y and returns z.
func (z *Fp) Add(x, y *Fp) *Fp {
	modAdd(z.limbs(), x.limbs(), y.limbs(), pMod)
	return z
}

// Double sets z = 2x and returns z.
func (z *Fp) Double(x *Fp) *Fp {
	modAdd(z.limbs(), x.limbs(), x.limbs(), pMod)
	return z
}

// Sub sets z = x - y and returns z.
func (z *Fp) Sub(x, y *Fp) *Fp {
	modSub(z.limbs(), x.limbs(), y.limbs(), pMod)
	return z
}

// Neg sets z = -x and returns z.
func (z *Fp) Neg(x *Fp) *Fp {
	modNeg(z.limbs(), x.limbs(), pMod)
	return z
}

// Mul sets z = x * y and returns z.
func (z *Fp) Mul(x, y *Fp) *Fp {
	montMul(z.limbs(), x.limbs(), y.limbs(), pMod)
	return z
}

// Square sets z = x * x and returns z.
func (z *Fp) Square(x *Fp) *Fp {
	montMul(z.limbs(), x.limbs(), x.limbs(), pMod)
	return z
}

// Exp sets z = x^e for canonical little-endian exponent words.
func (z *Fp) Exp(x *Fp, e [4]uint64) *Fp {
	montExp(z.limbs(), x.limbs(), e, pMod)
	return z
}

// Inverse sets z = 1/x by Fermat's little theorem. The inverse of 0 is 0.
func (z *Fp) Inverse(x *Fp) *Fp {
	montExp(z.limbs(), x.limbs(), pMod.nMinus2, pMod)
	return z
}

// Sqrt sets z to a square root of x and reports whether one exists. When it
// does not, z is left unchanged. Runs in variable time.
func (z *Fp) Sqrt(x *Fp) bool {
	var r [4]uint64
	if !montSqrt(&r, x.limbs(), pMod) {
		return false
	}
	*z = Fp(r)
	return true
}

// Select sets z = a if cond == 1 and z = b if cond == 0, in constant time.
func (z *Fp) Select(cond int, a, b *Fp) *Fp {
	selectLimbs(z.limbs(), a.limbs(), b.limbs(), cond)
	return z
}

// Equal reports whether z == x.
func (z *Fp) Equal(x *Fp) bool {
	return equal(z.limbs(), x.limbs())
}

// IsZero reports whether z == 0.
func (z *Fp) IsZero() bool {
	return isZero(z.limbs())
}

// IsOne reports whether z == 1.
func (z *Fp) IsOne() bool {
	return equal(z.limbs(), &pMod.r)
}

// IsOdd reports whether the canonical value of z is odd.
func (z *Fp) IsOdd() bool {
	return z.Canonical()[0]&1 == 1
}
