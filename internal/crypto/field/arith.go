// Package field implements arithmetic modulo the two Pasta primes.
//
// Fp is the base field of the Pallas curve (point coordinates) and Fq is its
// scalar field (private keys, nonces, signature responses). Both types hold
// four little-endian 64-bit limbs in Montgomery form, a·2^256 mod m, and are
// always fully reduced. Every operation is a pure function of its inputs, so
// values may be shared freely between goroutines.
package field

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	// ErrNotCanonical is returned when an encoded integer is not below the
	// modulus of the field it is being decoded into.
	ErrNotCanonical = errors.New("field: value not less than modulus")

	// ErrInvalidEncoding is returned for byte or hex input of the wrong shape.
	ErrInvalidEncoding = errors.New("field: invalid encoding")
)

// modulus bundles the constants the Montgomery routines need for one prime.
type modulus struct {
	n   [4]uint64 // the prime
	inv uint64    // -n^-1 mod 2^64
	r   [4]uint64 // 2^256 mod n, Montgomery one
	r2  [4]uint64 // 2^512 mod n

	nMinus2     [4]uint64 // inversion exponent
	half        [4]uint64 // (n-1)/2, Euler criterion
	twoAdicity  int       // n-1 = 2^twoAdicity * odd
	odd         [4]uint64 // (n-1) >> twoAdicity
	oddPlus1    [4]uint64 // (odd+1)/2
	rootOfUnity [4]uint64 // 5^odd in Montgomery form, 5 is a non-residue
}

func newModulus(n [4]uint64, inv uint64, r, r2 [4]uint64) *modulus {
	m := &modulus{n: n, inv: inv, r: r, r2: r2}

	var b uint64
	m.nMinus2[0], b = bits.Sub64(n[0], 2, 0)
	m.nMinus2[1], b = bits.Sub64(n[1], 0, b)
	m.nMinus2[2], b = bits.Sub64(n[2], 0, b)
	m.nMinus2[3], _ = bits.Sub64(n[3], 0, b)

	nMinus1 := n
	nMinus1[0]-- // n is odd, no borrow
	m.half = shiftRight(nMinus1, 1)

	m.odd = nMinus1
	for m.odd[0]&1 == 0 {
		m.odd = shiftRight(m.odd, 1)
		m.twoAdicity++
	}
	oddPlus1 := m.odd
	oddPlus1[0]++ // odd, no carry
	m.oddPlus1 = shiftRight(oddPlus1, 1)

	var five [4]uint64
	montMul(&five, &[4]uint64{5}, &m.r2, m)
	montExp(&m.rootOfUnity, &five, m.odd, m)
	return m
}

var (
	pMod = newModulus(
		[4]uint64{0x992d30ed00000001, 0x224698fc094cf91b, 0x0000000000000000, 0x4000000000000000},
		0x992d30ecffffffff,
		[4]uint64{0x34786d38fffffffd, 0x992c350be41914ad, 0xffffffffffffffff, 0x3fffffffffffffff},
		[4]uint64{0x8c78ecb30000000f, 0xd7d30dbd8b0de0e7, 0x7797a99bc3c95d18, 0x096d41af7b9cb714},
	)
	qMod = newModulus(
		[4]uint64{0x8c46eb2100000001, 0x224698fc0994a8dd, 0x0000000000000000, 0x4000000000000000},
		0x8c46eb20ffffffff,
		[4]uint64{0x5b2b3e9cfffffffd, 0x992c350be3420567, 0xffffffffffffffff, 0x3fffffffffffffff},
		[4]uint64{0xfc9678ff0000000f, 0x67bb433d891a16e3, 0x7fae231004ccf590, 0x096d41af7ccfdaa9},
	)
)

// madd returns the 128-bit value a*b + c + d as (hi, lo). It cannot overflow.
func madd(a, b, c, d uint64) (hi, lo uint64) {
	var carry uint64
	hi, lo = bits.Mul64(a, b)
	lo, carry = bits.Add64(lo, c, 0)
	hi += carry
	lo, carry = bits.Add64(lo, d, 0)
	hi += carry
	return hi, lo
}

// montMul sets z = x*y*2^-256 mod n (CIOS). Inputs may alias z. Any x, y
// below 2^256 with y < n produce a fully reduced result.
func montMul(z, x, y *[4]uint64, m *modulus) {
	var t [6]uint64
	var c uint64
	for i := 0; i < 4; i++ {
		c = 0
		for j := 0; j < 4; j++ {
			c, t[j] = madd(x[j], y[i], t[j], c)
		}
		t[4], c = bits.Add64(t[4], c, 0)
		t[5] = c

		k := t[0] * m.inv
		c, _ = madd(k, m.n[0], t[0], 0)
		for j := 1; j < 4; j++ {
			c, t[j-1] = madd(k, m.n[j], t[j], c)
		}
		t[3], c = bits.Add64(t[4], c, 0)
		t[4] = t[5] + c
	}

	var s [4]uint64
	var b uint64
	s[0], b = bits.Sub64(t[0], m.n[0], 0)
	s[1], b = bits.Sub64(t[1], m.n[1], b)
	s[2], b = bits.Sub64(t[2], m.n[2], b)
	s[3], b = bits.Sub64(t[3], m.n[3], b)
	_, b = bits.Sub64(t[4], 0, b)

	// b == 1: t < n, keep t
	mask := -b
	z[0] = t[0]&mask | s[0]&^mask
	z[1] = t[1]&mask | s[1]&^mask
	z[2] = t[2]&mask | s[2]&^mask
	z[3] = t[3]&mask | s[3]&^mask
}

func modAdd(z, x, y *[4]uint64, m *modulus) {
	var t, s [4]uint64
	var c, b uint64
	t[0], c = bits.Add64(x[0], y[0], 0)
	t[1], c = bits.Add64(x[1], y[1], c)
	t[2], c = bits.Add64(x[2], y[2], c)
	t[3], c = bits.Add64(x[3], y[3], c)

	s[0], b = bits.Sub64(t[0], m.n[0], 0)
	s[1], b = bits.Sub64(t[1], m.n[1], b)
	s[2], b = bits.Sub64(t[2], m.n[2], b)
	s[3], b = bits.Sub64(t[3], m.n[3], b)
	_, b = bits.Sub64(c, 0, b)

	mask := -b
	z[0] = t[0]&mask | s[0]&^mask
	z[1] = t[1]&mask | s[1]&^mask
	z[2] = t[2]&mask | s[2]&^mask
	z[3] = t[3]&mask | s[3]&^mask
}

func modSub(z, x, y *[4]uint64, m *modulus) {
	var t [4]uint64
	var b, c uint64
	t[0], b = bits.Sub64(x[0], y[0], 0)
	t[1], b = bits.Sub64(x[1], y[1], b)
	t[2], b = bits.Sub64(x[2], y[2], b)
	t[3], b = bits.Sub64(x[3], y[3], b)

	mask := -b
	z[0], c = bits.Add64(t[0], m.n[0]&mask, 0)
	z[1], c = bits.Add64(t[1], m.n[1]&mask, c)
	z[2], c = bits.Add64(t[2], m.n[2]&mask, c)
	z[3], _ = bits.Add64(t[3], m.n[3]&mask, c)
}

func modNeg(z, x *[4]uint64, m *modulus) {
	modSub(z, &[4]uint64{}, x, m)
}

// montExp sets z = x^e. The exponent is public; the schedule of
// multiplications depends only on e.
func montExp(z, x *[4]uint64, e [4]uint64, m *modulus) {
	r := m.r
	base := *x
	for i := 255; i >= 0; i-- {
		montMul(&r, &r, &r, m)
		if (e[i/64]>>(uint(i)%64))&1 == 1 {
			montMul(&r, &r, &base, m)
		}
	}
	*z = r
}

// montSqrt is Tonelli-Shanks. It runs in variable time and must only see
// public values.
func montSqrt(z, x *[4]uint64, m *modulus) bool {
	if isZero(x) {
		*z = [4]uint64{}
		return true
	}

	var euler [4]uint64
	montExp(&euler, x, m.half, m)
	if euler != m.r {
		return false
	}

	var t, r, b [4]uint64
	c := m.rootOfUnity
	montExp(&t, x, m.odd, m)
	montExp(&r, x, m.oddPlus1, m)
	k := m.twoAdicity
	for t != m.r {
		i := 0
		tt := t
		for tt != m.r {
			montMul(&tt, &tt, &tt, m)
			i++
		}
		b = c
		for j := 0; j < k-i-1; j++ {
			montMul(&b, &b, &b, m)
		}
		k = i
		montMul(&c, &b, &b, m)
		montMul(&t, &t, &c, m)
		montMul(&r, &r, &b, m)
	}
	*z = r
	return true
}

func toMont(z, x *[4]uint64, m *modulus) {
	montMul(z, x, &m.r2, m)
}

func fromMont(z, x *[4]uint64, m *modulus) {
	montMul(z, x, &[4]uint64{1}, m)
}

// lessThan reports x < n without branching on the limbs.
func lessThan(x, n *[4]uint64) bool {
	var b uint64
	_, b = bits.Sub64(x[0], n[0], 0)
	_, b = bits.Sub64(x[1], n[1], b)
	_, b = bits.Sub64(x[2], n[2], b)
	_, b = bits.Sub64(x[3], n[3], b)
	return b == 1
}

func isZero(x *[4]uint64) bool {
	return x[0]|x[1]|x[2]|x[3] == 0
}

func equal(x, y *[4]uint64) bool {
	return (x[0]^y[0])|(x[1]^y[1])|(x[2]^y[2])|(x[3]^y[3]) == 0
}

// selectLimbs sets z = a when cond == 1 and z = b when cond == 0.
func selectLimbs(z, a, b *[4]uint64, cond int) {
	mask := -uint64(cond & 1)
	z[0] = a[0]&mask | b[0]&^mask
	z[1] = a[1]&mask | b[1]&^mask
	z[2] = a[2]&mask | b[2]&^mask
	z[3] = a[3]&mask | b[3]&^mask
}

func shiftRight(x [4]uint64, k uint) [4]uint64 {
	return [4]uint64{
		x[0]>>k | x[1]<<(64-k),
		x[1]>>k | x[2]<<(64-k),
		x[2]>>k | x[3]<<(64-k),
		x[3] >> k,
	}
}

func wordsFromBE(b []byte) [4]uint64 {
	return [4]uint64{
		binary.BigEndian.Uint64(b[24:32]),
		binary.BigEndian.Uint64(b[16:24]),
		binary.BigEndian.Uint64(b[8:16]),
		binary.BigEndian.Uint64(b[0:8]),
	}
}

func wordsToBE(w [4]uint64) (b [32]byte) {
	binary.BigEndian.PutUint64(b[0:8], w[3])
	binary.BigEndian.PutUint64(b[8:16], w[2])
	binary.BigEndian.PutUint64(b[16:24], w[1])
	binary.BigEndian.PutUint64(b[24:32], w[0])
	return b
}

func wordsFromLE(b []byte) [4]uint64 {
	return [4]uint64{
		binary.LittleEndian.Uint64(b[0:8]),
		binary.LittleEndian.Uint64(b[8:16]),
		binary.LittleEndian.Uint64(b[16:24]),
		binary.LittleEndian.Uint64(b[24:32]),
	}
}

func wordsToLE(w [4]uint64) (b [32]byte) {
	binary.LittleEndian.PutUint64(b[0:8], w[0])
	binary.LittleEndian.PutUint64(b[8:16], w[1])
	binary.LittleEndian.PutUint64(b[16:24], w[2])
	binary.LittleEndian.PutUint64(b[24:32], w[3])
	return b
}

// parseHex decodes up to 64 hex digits (optional 0x prefix) into a
// big-endian 32-byte buffer.
func parseHex(s string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 0 || len(s) > 64 {
		return out, fmt.Errorf("%w: hex length %d", ErrInvalidEncoding, len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	copy(out[32-len(raw):], raw)
	return out, nil
}
