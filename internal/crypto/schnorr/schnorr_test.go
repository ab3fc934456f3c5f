package schnorr

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-mina-signer/internal/crypto/curves"
	"github.com/smallyu/go-mina-signer/internal/crypto/field"
	"github.com/smallyu/go-mina-signer/internal/crypto/roinput"
)

func testKey(t *testing.T, h string) (field.Fq, curves.Point) {
	t.Helper()
	var d field.Fq
	require.NoError(t, d.SetHex(h))
	var p curves.Point
	p.ScalarBaseMult(&d)
	return d, p
}

func testMessage() *roinput.Input {
	x := field.NewFp(99)
	return roinput.New().AddField(&x).AddUint64(2000000000).AddUint32(16).AddBytes([]byte("Hello Mina!"))
}

func TestSchnorrSignature(t *testing.T) {
	d, pub := testKey(t, "164244176fddb5d769b7de2027469d027ad428fadcc0c02396e6280142efb718")

	for name, signer := range map[string]*Signer{
		"blake2b": New(),
		"rfc6979": New(WithNonce(RFC6979Nonce{})),
		"mainnet": New(WithNetwork(Mainnet)),
	} {
		t.Run(name, func(t *testing.T) {
			msg := testMessage()

			// 1. Sign
			sig, err := signer.Sign(&d, &pub, msg)
			require.NoError(t, err)

			// 2. Verify
			assert.True(t, signer.Verify(sig, &pub, msg))

			// 3. Deterministic
			again, err := signer.Sign(&d, &pub, msg)
			require.NoError(t, err)
			assert.Equal(t, sig.Hex(), again.Hex())
		})
	}
}

func TestSchnorrSignatureInvalid(t *testing.T) {
	d, pub := testKey(t, "3ca187a58f09da346844964310c7e0dd948a9105702b716f4d732e042e0c172e")
	signer := New()
	msg := testMessage()

	sig, err := signer.Sign(&d, &pub, msg)
	require.NoError(t, err)

	t.Run("modified s", func(t *testing.T) {
		bad := *sig
		one := field.NewFq(1)
		bad.S.Add(&bad.S, &one)
		assert.False(t, signer.Verify(&bad, &pub, msg))
	})

	t.Run("modified rx", func(t *testing.T) {
		bad := *sig
		one := field.NewFp(1)
		bad.Rx.Add(&bad.Rx, &one)
		assert.False(t, signer.Verify(&bad, &pub, msg))
	})

	t.Run("every bit of the encoding", func(t *testing.T) {
		b := sig.Bytes()
		for i := 0; i < len(b)*8; i += 7 {
			flipped := b
			flipped[i/8] ^= 1 << uint(i%8)
			var bad Signature
			if bad.SetBytes(flipped[:]) != nil {
				continue
			}
			assert.False(t, signer.Verify(&bad, &pub, msg), "bit %d", i)
		}
	})

	t.Run("modified message", func(t *testing.T) {
		other := testMessage().AddBit(true)
		assert.False(t, signer.Verify(sig, &pub, other))
	})

	t.Run("other key", func(t *testing.T) {
		_, otherPub := testKey(t, "336eb4a19b3d8905824b0f2254fb495573be302c17582748bf7e101965aa4774")
		assert.False(t, signer.Verify(sig, &otherPub, msg))
	})

	t.Run("negated key", func(t *testing.T) {
		var neg curves.Point
		neg.Neg(&pub)
		assert.False(t, signer.Verify(sig, &neg, msg))
	})

	t.Run("off-curve key", func(t *testing.T) {
		bad := curves.Point{X: field.NewFp(1), Y: field.NewFp(1)}
		assert.False(t, signer.Verify(sig, &bad, msg))
		id := curves.Identity()
		assert.False(t, signer.Verify(sig, &id, msg))
	})

	t.Run("other network", func(t *testing.T) {
		assert.False(t, New(WithNetwork(Mainnet)).Verify(sig, &pub, msg))
	})

	t.Run("nil inputs", func(t *testing.T) {
		assert.False(t, signer.Verify(nil, &pub, msg))
		assert.False(t, signer.Verify(sig, nil, msg))
		assert.False(t, signer.Verify(sig, &pub, nil))
	})
}

func TestSignZeroKey(t *testing.T) {
	var d field.Fq
	g := curves.Generator()
	_, err := New().Sign(&d, &g, testMessage())
	assert.ErrorIs(t, err, ErrZeroKey)
}

type zeroNonce struct{ calls int }

func (z *zeroNonce) Nonce(*field.Fq, *curves.Point, *roinput.Input, uint32) field.Fq {
	z.calls++
	return field.Fq{}
}

type oneShotNonce struct{}

func (oneShotNonce) Nonce(_ *field.Fq, _ *curves.Point, _ *roinput.Input, counter uint32) field.Fq {
	if counter == 0 {
		return field.Fq{}
	}
	return field.NewFq(uint64(counter) + 1000)
}

func TestZeroNonce(t *testing.T) {
	d, pub := testKey(t, "1dee867358d4000f1dafa5978341fb515f89eeddbe450bd57df091f1e63d4444")

	t.Run("re-derived", func(t *testing.T) {
		sig, err := New(WithNonce(oneShotNonce{})).Sign(&d, &pub, testMessage())
		require.NoError(t, err)
		assert.True(t, New().Verify(sig, &pub, testMessage()))
	})

	t.Run("gives up", func(t *testing.T) {
		z := &zeroNonce{}
		_, err := New(WithNonce(z)).Sign(&d, &pub, testMessage())
		assert.ErrorIs(t, err, ErrIntegrity)
		assert.Equal(t, maxNonceAttempts, z.calls)
	})
}

// flakyChallenger returns a different challenge on every call so the
// self-verification in Sign must fail.
type flakyChallenger struct{ n uint64 }

func (f *flakyChallenger) Challenge(*roinput.Input, *curves.Point, *field.Fp) field.Fq {
	f.n++
	return field.NewFq(f.n)
}

func TestSelfVerification(t *testing.T) {
	d, pub := testKey(t, "20f84123a26e58dd32b0ea3c80381f35cd01bc22a20346cc65b0a67ae48532ba")
	_, err := New(WithChallenger(&flakyChallenger{})).Sign(&d, &pub, testMessage())
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestSignatureEncoding(t *testing.T) {
	d, pub := testKey(t, "3414fc16e86e6ac272fda03cf8dcb4d7d47af91b4b726494dab43bf773ce1779")
	sig, err := New().Sign(&d, &pub, testMessage())
	require.NoError(t, err)

	h := sig.Hex()
	require.Len(t, h, 128)
	parsed, err := ParseSignature(h)
	require.NoError(t, err)
	assert.Equal(t, *sig, *parsed)

	upper, err := ParseSignature(strings.ToUpper(h))
	require.NoError(t, err)
	assert.Equal(t, *sig, *upper)

	tests := []struct {
		name string
		in   string
	}{
		{"short", h[:126]},
		{"long", h + "00"},
		{"not hex", "zz" + h[2:]},
		{"rx not below p", field.FpModulus().Text(16) + h[64:]},
		{"s not below q", h[:64] + field.FqModulus().Text(16)},
		{"s all ones", h[:64] + strings.Repeat("f", 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignature(tt.in)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestNonceDerivers(t *testing.T) {
	d, pub := testKey(t, "164244176fddb5d769b7de2027469d027ad428fadcc0c02396e6280142efb718")
	msg := testMessage()

	for name, n := range map[string]NonceDeriver{"blake2b": Blake2bNonce{}, "rfc6979": RFC6979Nonce{}} {
		t.Run(name, func(t *testing.T) {
			k0 := n.Nonce(&d, &pub, msg, 0)
			k1 := n.Nonce(&d, &pub, msg, 1)
			assert.False(t, k0.IsZero())
			assert.False(t, k0.Equal(&k1), "counter changes the nonce")

			again := n.Nonce(&d, &pub, msg, 0)
			assert.True(t, k0.Equal(&again))

			other := n.Nonce(&d, &pub, testMessage().AddBit(true), 0)
			assert.False(t, k0.Equal(&other), "message changes the nonce")

			assert.True(t, k0.BigInt().Cmp(field.FqModulus()) < 0)
		})
	}

	_, after := msg.Len()
	_, before := testMessage().Len()
	assert.Equal(t, before, after, "derivers must not modify the message")
}

func TestParseNetwork(t *testing.T) {
	n, err := ParseNetwork("MAINNET")
	require.NoError(t, err)
	assert.Equal(t, Mainnet, n)
	assert.Equal(t, "mainnet", n.String())
	assert.Len(t, n.Prefix(), 20)

	n, err = ParseNetwork("")
	require.NoError(t, err)
	assert.Equal(t, Testnet, n)
	assert.Len(t, n.Prefix(), 20)

	_, err = ParseNetwork("devnet")
	assert.Error(t, err)
}

func TestParseNonce(t *testing.T) {
	n, err := ParseNonce("RFC6979")
	require.NoError(t, err)
	assert.Equal(t, RFC6979Nonce{}, n)

	n, err = ParseNonce("")
	require.NoError(t, err)
	assert.Equal(t, Blake2bNonce{}, n)

	_, err = ParseNonce("random")
	assert.Error(t, err)
}

func TestScalarFromDigest(t *testing.T) {
	ones := []byte(strings.Repeat("\xff", 32))
	s := scalarFromDigest(ones)
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 254), big.NewInt(1))
	assert.Equal(t, want.Text(16), s.BigInt().Text(16), "top two bits cleared")

	le := make([]byte, 32)
	le[0] = 0x05
	le[1] = 0x01
	s = scalarFromDigest(le)
	assert.Equal(t, "105", s.BigInt().Text(16), "digest is little-endian")
}

func TestChallengeUsesFieldForm(t *testing.T) {
	_, pub := testKey(t, "164244176fddb5d769b7de2027469d027ad428fadcc0c02396e6280142efb718")
	rx := pub.X
	c := Blake2bChallenger{Network: Testnet}

	msg := testMessage()
	e := c.Challenge(msg, &pub, &rx)
	again := c.Challenge(testMessage(), &pub, &rx)
	assert.True(t, e.Equal(&again))

	// Fill the bit string to exactly one chunk, then add one zero bit. The
	// packed bytes stay the same but the field form gains an element.
	full := testMessage()
	_, n := full.Len()
	for ; n < roinput.FieldBits-1; n++ {
		full.AddBit(false)
	}
	longer := full.Clone().AddBit(false)
	require.Equal(t, full.Bytes(), longer.Bytes())
	require.Len(t, longer.Fields(), len(full.Fields())+1)

	a := c.Challenge(full, &pub, &rx)
	b := c.Challenge(longer, &pub, &rx)
	assert.False(t, a.Equal(&b))

	mainnet := Blake2bChallenger{Network: Mainnet}.Challenge(msg, &pub, &rx)
	assert.False(t, e.Equal(&mainnet))

	_, after := msg.Len()
	_, before := testMessage().Len()
	assert.Equal(t, before, after, "challenger must not modify the message")
}
