package jsonx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Address string `json:"address"`
	Nonce   uint32 `json:"nonce"`
	Memo    string `json:"memo,omitempty"`
}

func TestRoundTrip(t *testing.T) {
	in := sample{Address: "B62q", Nonce: 16}
	b, err := Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"B62q","nonce":16}`, string(b))

	var out sample
	require.NoError(t, Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(sample{Memo: "<tag>"}))
	assert.Contains(t, buf.String(), `\u003ctag\u003e`, "html escaping matches encoding/json")

	var out sample
	require.NoError(t, NewDecoder(&buf).Decode(&out))
	assert.Equal(t, "<tag>", out.Memo)
}
