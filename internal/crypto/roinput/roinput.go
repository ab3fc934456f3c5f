// Package roinput builds the random oracle input that a transaction is
// hashed from: a list of whole base field elements followed by a bit string.
package roinput

import (
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
)

const (
	// FieldBits is the width one base field element occupies in Bytes.
	FieldBits = 255

	// chunkBits is how many bits of the bit string fit in one packed field
	// element without reduction.
	chunkBits = FieldBits - 1
)

// Input accumulates field elements and bits. The zero value is empty and
// ready to use.
type Input struct {
	fields []field.Fp
	bits   []bool
}

// New returns an empty Input.
func New() *Input {
	return &Input{}
}

// AddField appends a whole base field element.
func (in *Input) AddField(x *field.Fp) *Input {
	in.fields = append(in.fields, *x)
	return in
}

// AddScalar appends the 255 canonical bits of s, least significant first.
func (in *Input) AddScalar(s *field.Fq) *Input {
	w := s.Canonical()
	for i := 0; i < FieldBits; i++ {
		in.bits = append(in.bits, (w[i/64]>>(uint(i)%64))&1 == 1)
	}
	return in
}

// AddBit appends a single bit.
func (in *Input) AddBit(b bool) *Input {
	in.bits = append(in.bits, b)
	return in
}

// AddBytes appends every byte of b, least significant bit first.
func (in *Input) AddBytes(b []byte) *Input {
	for _, c := range b {
		for j := 0; j < 8; j++ {
			in.bits = append(in.bits, (c>>uint(j))&1 == 1)
		}
	}
	return in
}

// AddUint32 appends the 32 bits of x, least significant first.
func (in *Input) AddUint32(x uint32) *Input {
	return in.addUint(uint64(x), 32)
}

// AddUint64 appends the 64 bits of x, least significant first.
func (in *Input) AddUint64(x uint64) *Input {
	return in.addUint(x, 64)
}

func (in *Input) addUint(x uint64, n int) *Input {
	for i := 0; i < n; i++ {
		in.bits = append(in.bits, (x>>uint(i))&1 == 1)
	}
	return in
}

// Len returns the number of field elements and bits added so far.
func (in *Input) Len() (fields, bits int) {
	return len(in.fields), len(in.bits)
}

// Clone returns an independent copy of in.
func (in *Input) Clone() *Input {
	return &Input{
		fields: append([]field.Fp(nil), in.fields...),
		bits:   append([]bool(nil), in.bits...),
	}
}

// Bytes packs the input into bytes, least significant bit first. Each field
// element contributes FieldBits bits of its canonical value, then the bit
// string follows. The final byte is zero padded.
func (in *Input) Bytes() []byte {
	total := len(in.fields)*FieldBits + len(in.bits)
	out := make([]byte, (total+7)/8)

	pos := 0
	put := func(b bool) {
		if b {
			out[pos/8] |= 1 << uint(pos%8)
		}
		pos++
	}
	for i := range in.fields {
		w := in.fields[i].Canonical()
		for j := 0; j < FieldBits; j++ {
			put((w[j/64]>>(uint(j)%64))&1 == 1)
		}
	}
	for _, b := range in.bits {
		put(b)
	}
	return out
}

// Fields returns the field elements followed by the bit string cut into
// chunks of 254 bits, each read little-endian into one field element.
func (in *Input) Fields() []field.Fp {
	out := append([]field.Fp(nil), in.fields...)
	for start := 0; start < len(in.bits); start += chunkBits {
		end := start + chunkBits
		if end > len(in.bits) {
			end = len(in.bits)
		}
		var w [4]uint64
		for i, b := range in.bits[start:end] {
			if b {
				w[i/64] |= 1 << uint(i%64)
			}
		}
		var x field.Fp
		// 254 bits are always below p
		_ = x.SetCanonical(w)
		out = append(out, x)
	}
	return out
}
