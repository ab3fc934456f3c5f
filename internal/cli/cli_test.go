package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-mina-signer/internal/jsonx"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

const (
	priv0 = "164244176fddb5d769b7de2027469d027ad428fadcc0c02396e6280142efb718"
	addr0 = "B62qnzbXmRNo9q32n4SNu2mpB8e7FYYLH8NmaX6oFCBYjjQ8SbD7uzV"
	priv1 = "3ca187a58f09da346844964310c7e0dd948a9105702b716f4d732e042e0c172e"
	addr1 = "B62qicipYxyEHu7QjUqS7QvBipTs5CzgkYZZZkPoKVYBu6tnDUcE9Zt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := newApp()
	a.logOutput = io.Discard
	cmd := newRootCmd(a, BuildInfo{Version: "1.2.3"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func TestAddressCommand(t *testing.T) {
	t.Setenv(privateKeyEnv, "")

	t.Run("flag", func(t *testing.T) {
		out, err := run(t, "address", "--key", priv0)
		require.NoError(t, err)
		assert.Equal(t, addr0+"\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "address", "--key", priv0, "-o", "json")
		require.NoError(t, err)
		var got addressOutput
		require.NoError(t, jsonx.Unmarshal([]byte(out), &got))
		assert.Equal(t, addr0, got.Address)
		assert.Len(t, got.X, 64)
	})

	t.Run("key file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key")
		require.NoError(t, os.WriteFile(path, []byte(priv1+"\n"), 0o600))
		out, err := run(t, "address", "--key-file", path)
		require.NoError(t, err)
		assert.Equal(t, addr1+"\n", out)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(privateKeyEnv, priv1)
		out, err := run(t, "address")
		require.NoError(t, err)
		assert.Equal(t, addr1+"\n", out)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := run(t, "address")
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})

	t.Run("bad key", func(t *testing.T) {
		_, err := run(t, "address", "--key", "f"+priv0[1:])
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})
}

func TestKeygenCommand(t *testing.T) {
	out, err := run(t, "keygen", "-o", "json")
	require.NoError(t, err)

	var got keygenOutput
	require.NoError(t, jsonx.Unmarshal([]byte(out), &got))
	assert.Len(t, got.PrivateKey, 64)

	derived, err := run(t, "address", "--key", got.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, got.Address+"\n", derived)
}

func TestSignVerifyCommands(t *testing.T) {
	tx := []string{"--to", addr1, "--amount", "1729000000000", "--fee", "2000000000", "--nonce", "16", "--valid-until", "271828", "--memo", "Hello Mina!"}

	out, err := run(t, append([]string{"sign", "--key", priv0}, tx...)...)
	require.NoError(t, err)
	sig := strings.TrimSpace(out)
	require.Len(t, sig, 128)

	t.Run("deterministic", func(t *testing.T) {
		again, err := run(t, append([]string{"sign", "--key", priv0}, tx...)...)
		require.NoError(t, err)
		assert.Equal(t, sig, strings.TrimSpace(again))
	})

	t.Run("valid", func(t *testing.T) {
		out, err := run(t, append([]string{"verify", "--from", addr0, "--signature", sig}, tx...)...)
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	})

	t.Run("tampered", func(t *testing.T) {
		changed := append([]string{"verify", "--from", addr0, "--signature", sig}, tx...)
		changed = append(changed, "--fee", "1")
		out, err := run(t, changed...)
		require.Error(t, err)
		assert.Equal(t, "invalid\n", out)
		assert.Equal(t, ExitError, ExitCodeForError(err))
	})

	t.Run("other network", func(t *testing.T) {
		out, err := run(t, append([]string{"verify", "--network", "mainnet", "--from", addr0, "--signature", sig}, tx...)...)
		require.Error(t, err)
		assert.Equal(t, "invalid\n", out)
	})

	t.Run("delegation json", func(t *testing.T) {
		out, err := run(t, "sign", "--key", priv0, "--to", addr1, "--fee", "2000000000", "--nonce", "16", "--valid-until", "1337", "--memo", "Delewho?", "--delegation", "--amount", "5", "-o", "json")
		require.NoError(t, err)
		var got signOutput
		require.NoError(t, jsonx.Unmarshal([]byte(out), &got))
		assert.Equal(t, "delegation", got.Kind)
		assert.Equal(t, addr0, got.From)
		assert.Equal(t, uint64(0), got.Amount, "delegations carry no amount")
		assert.Equal(t, "Delewho?", got.Memo)
	})

	t.Run("missing receiver", func(t *testing.T) {
		_, err := run(t, "sign", "--key", priv0)
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})

	t.Run("bad receiver", func(t *testing.T) {
		_, err := run(t, "sign", "--key", priv0, "--to", addr1[:54]+"1")
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})
}

func TestSignBatchCommand(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "batch.yaml")
	batch := fmt.Sprintf(`- private_key: %s
  to: %s
  amount: 1729000000000
  fee: 2000000000
  nonce: 16
  valid_until: 271828
  memo: Hello Mina!
- private_key: %s
  to: %s
  fee: 2000000000
  nonce: 3
  valid_until: 4294967295
  delegation: true
`, priv0, addr1, priv1, addr0)
	require.NoError(t, os.WriteFile(yamlPath, []byte(batch), 0o600))

	out, err := run(t, "sign-batch", yamlPath, "--workers", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	single, err := run(t, "sign", "--key", priv0, "--to", addr1, "--amount", "1729000000000", "--fee", "2000000000", "--nonce", "16", "--valid-until", "271828", "--memo", "Hello Mina!")
	require.NoError(t, err)
	assert.Equal(t, addr0+" "+strings.TrimSpace(single), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], addr1+" "))

	t.Run("json file", func(t *testing.T) {
		jsonPath := filepath.Join(dir, "batch.json")
		data := fmt.Sprintf(`[{"private_key":%q,"to":%q,"fee":1,"nonce":0,"valid_until":1}]`, priv1, addr0)
		require.NoError(t, os.WriteFile(jsonPath, []byte(data), 0o600))

		out, err := run(t, "sign-batch", jsonPath, "-o", "json")
		require.NoError(t, err)
		var got batchOutput
		require.NoError(t, jsonx.Unmarshal([]byte(out), &got))
		assert.Equal(t, addr1, got.From)
		assert.Equal(t, "payment", got.Kind)
		assert.Len(t, got.Signature, 128)
	})

	t.Run("bad entry", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("- private_key: 00\n  to: "+addr0+"\n"), 0o600))
		_, err := run(t, "sign-batch", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entry 0")
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})

	t.Run("empty", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, []byte("[]\n"), 0o600))
		_, err := run(t, "sign-batch", empty)
		assert.Error(t, err)
	})
}

func TestSelftestCommand(t *testing.T) {
	t.Run("summary", func(t *testing.T) {
		out, err := run(t, "selftest")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("curve checks passed (%d epochs)\n", selftest.DefaultEpochs), out)
	})

	t.Run("ledger", func(t *testing.T) {
		out, err := run(t, "selftest", "--epochs", "2", "--mode", "ledger", "--vectors")
		require.NoError(t, err)
		assert.Contains(t, out, `    assert(mina.ledger_get_address(0x312a) == "B62qoG5Yk4iVxpyczUrBNpwtx2xunhL48dydN53A2VjoRwF8NUTbVr4")`)
		assert.Contains(t, out, "mina.TX_TYPE_DELEGATION")
		assert.Contains(t, out, "#define EPOCHS 2\n")
		assert.Equal(t, 8, strings.Count(out, "# sig="))
	})

	t.Run("verbose constants", func(t *testing.T) {
		out, err := run(t, "selftest", "--epochs", "1", "--constants")
		require.NoError(t, err)
		assert.Contains(t, out, "static const Affine T[1][5] = {")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "selftest", "--epochs", "2", "-o", "json")
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
	})

	t.Run("bad mode", func(t *testing.T) {
		_, err := run(t, "selftest", "--mode", "xml")
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mina-signer 1.2.3 (commit: none, built: unknown)\n", out)

	out, err = run(t, "version", "-o", "json")
	require.NoError(t, err)
	var got BuildInfo
	require.NoError(t, jsonx.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1.2.3", got.Version)
}

func TestConfigErrors(t *testing.T) {
	_, err := run(t, "version", "--network", "devnet")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

	_, err = run(t, "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"law violated", fmt.Errorf("gate: %w", &selftest.Violation{Epoch: 3, Law: selftest.AddCommutes}), ExitSelftestFailed},
		{"explicit", withExitCode(ExitInvalidInput, errors.New("bad")), ExitInvalidInput},
		{"cobra flag", errors.New("unknown flag: --frobnicate"), ExitInvalidInput},
		{"other", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
	assert.Nil(t, withExitCode(ExitError, nil))
}
