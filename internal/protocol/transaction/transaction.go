// Package transaction defines the legacy Mina payment and delegation
// records and packs them into the random oracle input that gets signed.
package transaction

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/roinput"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
)

const (
	// MemoBytes is the fixed width of the memo field.
	MemoBytes = 34

	// MemoMaxLen is the longest user memo kept; longer memos are truncated.
	MemoMaxLen = MemoBytes - 2

	// DefaultTokenID is the id of the native token.
	DefaultTokenID uint64 = 1

	// TagBits is the width of the transaction kind tag.
	TagBits = 3

	memoUserTag = 0x01
)

var (
	ErrInvalidAddress = errors.New("transaction: invalid address")
)

// Kind selects the transaction body.
type Kind uint8

const (
	Payment    Kind = 0 // tag 000
	Delegation Kind = 1 // tag 001
)

func (k Kind) String() string {
	switch k {
	case Payment:
		return "payment"
	case Delegation:
		return "delegation"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Tag returns the three tag bits, most significant first.
func (k Kind) Tag() [TagBits]bool {
	return [TagBits]bool{k&4 != 0, k&2 != 0, k&1 != 0}
}

// Memo is the padded memo field: a tag byte, a length byte, then up to
// MemoMaxLen bytes of text followed by zeros.
type Memo [MemoBytes]byte

// PrepareMemo encodes s into the memo field, truncating it to MemoMaxLen
// bytes.
func PrepareMemo(s string) Memo {
	var m Memo
	n := len(s)
	if n > MemoMaxLen {
		n = MemoMaxLen
	}
	m[0] = memoUserTag
	m[1] = byte(n)
	copy(m[2:], s[:n])
	return m
}

// Text returns the memo text.
func (m Memo) Text() string {
	n := int(m[1])
	if n > MemoMaxLen {
		n = MemoMaxLen
	}
	return string(m[2 : 2+n])
}

// Transaction is a legacy user command. Values are immutable once built;
// construct them with NewPayment or NewDelegation.
type Transaction struct {
	Fee        uint64
	FeeToken   uint64
	FeePayer   curves.Compressed
	Nonce      uint32
	ValidUntil uint32
	Memo       Memo

	Kind        Kind
	Source      curves.Compressed
	Receiver    curves.Compressed
	TokenID     uint64
	Amount      uint64
	TokenLocked bool
}

// Params are the caller supplied fields of a transaction.
type Params struct {
	From       string
	To         string
	Amount     uint64
	Fee        uint64
	Nonce      uint32
	ValidUntil uint32
	Memo       string
}

func build(kind Kind, p Params) (*Transaction, error) {
	from, err := address.Decode(p.From)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %w", ErrInvalidAddress, err)
	}
	to, err := address.Decode(p.To)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %w", ErrInvalidAddress, err)
	}
	return &Transaction{
		Fee:        p.Fee,
		FeeToken:   DefaultTokenID,
		FeePayer:   from,
		Nonce:      p.Nonce,
		ValidUntil: p.ValidUntil,
		Memo:       PrepareMemo(p.Memo),
		Kind:       kind,
		Source:     from,
		Receiver:   to,
		TokenID:    DefaultTokenID,
		Amount:     p.Amount,
	}, nil
}

// NewPayment builds a payment of p.Amount from p.From to p.To. The sender
// pays the fee.
func NewPayment(p Params) (*Transaction, error) {
	return build(Payment, p)
}

// NewDelegation builds a stake delegation from p.From to p.To. The amount
// is ignored.
func NewDelegation(p Params) (*Transaction, error) {
	p.Amount = 0
	return build(Delegation, p)
}

// ToROInput packs the transaction. The three public key x coordinates come
// first as field elements, then the bit string in this order: fee, fee
// token, fee payer parity, nonce, valid until, memo, tag, source parity,
// receiver parity, token id, amount, token locked.
func (tx *Transaction) ToROInput() *roinput.Input {
	in := roinput.New()
	in.AddField(&tx.FeePayer.X)
	in.AddField(&tx.Source.X)
	in.AddField(&tx.Receiver.X)

	in.AddUint64(tx.Fee)
	in.AddUint64(tx.FeeToken)
	in.AddBit(tx.FeePayer.IsOdd)
	in.AddUint32(tx.Nonce)
	in.AddUint32(tx.ValidUntil)
	in.AddBytes(tx.Memo[:])
	for _, b := range tx.Kind.Tag() {
		in.AddBit(b)
	}
	in.AddBit(tx.Source.IsOdd)
	in.AddBit(tx.Receiver.IsOdd)
	in.AddUint64(tx.TokenID)
	in.AddUint64(tx.Amount)
	in.AddBit(tx.TokenLocked)
	return in
}

// PackedBits is the number of bits ToROInput appends after the field
// elements.
const PackedBits = 64 + 64 + 1 + 32 + 32 + MemoBytes*8 + TagBits + 1 + 1 + 64 + 64 + 1
