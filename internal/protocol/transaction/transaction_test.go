package transaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-mina-signer/internal/crypto/roinput"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
)

const (
	sender   = "B62qnzbXmRNo9q32n4SNu2mpB8e7FYYLH8NmaX6oFCBYjjQ8SbD7uzV"
	receiver = "B62qicipYxyEHu7QjUqS7QvBipTs5CzgkYZZZkPoKVYBu6tnDUcE9Zt"
)

func bitAt(b []byte, i int) bool {
	return b[i/8]>>(uint(i)%8)&1 == 1
}

func TestPrepareMemo(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Hello Mina!", "Hello Mina!"},
		{"01234567890123456789012345678901", "01234567890123456789012345678901"},
		{"01234567890123456789012345678901XYZ", "01234567890123456789012345678901"},
	}
	for _, tt := range tests {
		m := PrepareMemo(tt.in)
		assert.Equal(t, byte(0x01), m[0])
		assert.Equal(t, byte(len(tt.want)), m[1])
		assert.Equal(t, tt.want, m.Text())
		for _, b := range m[2+len(tt.want):] {
			assert.Zero(t, b)
		}
	}
}

func TestKindTag(t *testing.T) {
	assert.Equal(t, [TagBits]bool{false, false, false}, Payment.Tag())
	assert.Equal(t, [TagBits]bool{false, false, true}, Delegation.Tag())
	assert.Equal(t, "payment", Payment.String())
	assert.Equal(t, "delegation", Delegation.String())
	assert.Equal(t, "kind(7)", Kind(7).String())
}

func TestNewPayment(t *testing.T) {
	tx, err := NewPayment(Params{
		From: sender, To: receiver,
		Amount: 1729000000000, Fee: 2000000000,
		Nonce: 16, ValidUntil: 271828, Memo: "Hello Mina!",
	})
	require.NoError(t, err)

	from, _ := address.Decode(sender)
	to, _ := address.Decode(receiver)
	assert.True(t, tx.FeePayer.Equal(from))
	assert.True(t, tx.Source.Equal(from))
	assert.True(t, tx.Receiver.Equal(to))
	assert.Equal(t, DefaultTokenID, tx.FeeToken)
	assert.Equal(t, DefaultTokenID, tx.TokenID)
	assert.Equal(t, Payment, tx.Kind)
	assert.False(t, tx.TokenLocked)
	assert.Equal(t, uint64(1729000000000), tx.Amount)
	assert.Equal(t, "Hello Mina!", tx.Memo.Text())
}

func TestNewDelegationDropsAmount(t *testing.T) {
	tx, err := NewDelegation(Params{From: sender, To: receiver, Amount: 5, Fee: 1})
	require.NoError(t, err)
	assert.Equal(t, Delegation, tx.Kind)
	assert.Zero(t, tx.Amount)
}

func TestInvalidAddresses(t *testing.T) {
	_, err := NewPayment(Params{From: "nope", To: receiver})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.ErrorIs(t, err, address.ErrLength)

	bad := receiver[:54] + "x"
	_, err = NewDelegation(Params{From: sender, To: bad})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestToROInputLayout(t *testing.T) {
	tx, err := NewPayment(Params{
		From: sender, To: receiver,
		Amount: 1 << 63, Fee: 3,
		Nonce: 1 << 31, ValidUntil: 1, Memo: "A",
	})
	require.NoError(t, err)
	tx.TokenLocked = true

	in := tx.ToROInput()
	fields, bits := in.Len()
	require.Equal(t, 3, fields)
	require.Equal(t, PackedBits, bits)

	fs := in.Fields()
	assert.True(t, fs[0].Equal(&tx.FeePayer.X))
	assert.True(t, fs[1].Equal(&tx.Source.X))
	assert.True(t, fs[2].Equal(&tx.Receiver.X))

	b := in.Bytes()
	base := 3 * roinput.FieldBits

	// fee = 3
	assert.True(t, bitAt(b, base+0))
	assert.True(t, bitAt(b, base+1))
	assert.False(t, bitAt(b, base+2))
	// fee token = 1
	assert.True(t, bitAt(b, base+64))
	assert.False(t, bitAt(b, base+65))
	// fee payer parity
	assert.Equal(t, tx.FeePayer.IsOdd, bitAt(b, base+128))
	// nonce top bit
	assert.True(t, bitAt(b, base+129+31))
	// valid until = 1
	assert.True(t, bitAt(b, base+161))
	// memo: tag byte 0x01, length 1, 'A'
	memo := base + 193
	assert.True(t, bitAt(b, memo))
	assert.True(t, bitAt(b, memo+8))
	assert.True(t, bitAt(b, memo+16) && bitAt(b, memo+16+6), "'A' is 0x41")
	// tag 000
	tag := memo + MemoBytes*8
	assert.False(t, bitAt(b, tag) || bitAt(b, tag+1) || bitAt(b, tag+2))
	assert.Equal(t, tx.Source.IsOdd, bitAt(b, tag+3))
	assert.Equal(t, tx.Receiver.IsOdd, bitAt(b, tag+4))
	// token id = 1
	assert.True(t, bitAt(b, tag+5))
	// amount top bit
	assert.True(t, bitAt(b, tag+5+64+63))
	// token locked
	assert.True(t, bitAt(b, tag+5+128))
	assert.Equal(t, base+PackedBits, tag+5+129)
}

func TestToROInputDistinguishesKinds(t *testing.T) {
	p := Params{From: sender, To: receiver, Fee: 1}
	pay, err := NewPayment(p)
	require.NoError(t, err)
	del, err := NewDelegation(p)
	require.NoError(t, err)
	assert.NotEqual(t, pay.ToROInput().Bytes(), del.ToROInput().Bytes())
}

func TestMemoTextClampsLength(t *testing.T) {
	var m Memo
	m[1] = 200
	copy(m[2:], strings.Repeat("a", MemoMaxLen))
	assert.Len(t, m.Text(), MemoMaxLen)
}
