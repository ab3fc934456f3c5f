package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-mina-signer/internal/crypto/schnorr"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, *Default(), *cfg)
	assert.Equal(t, selftest.DefaultEpochs, cfg.Selftest.Epochs)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signer.yaml")
	data := []byte("network: mainnet\nnonce: rfc6979\nlog:\n  level: debug\n  file: /tmp/signer.log\nselftest:\n  epochs: 3\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, NonceRFC6979, cfg.Nonce)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/signer.log", cfg.Log.File)
	assert.Equal(t, 3, cfg.Selftest.Epochs)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB, "unset keys keep defaults")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MINA_SIGNER_NETWORK", "mainnet")
	t.Setenv("MINA_SIGNER_LOG_LEVEL", "warn")
	t.Setenv("MINA_SIGNER_SELFTEST_EPOCHS", "2")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Selftest.Epochs)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("MINA_SIGNER_NONCE", "random")
		_, err := Load(NewViper(), "")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"network":  func(c *Config) { c.Network = "devnet" },
		"nonce":    func(c *Config) { c.Nonce = "sha3" },
		"output":   func(c *Config) { c.Output = "xml" },
		"workers":  func(c *Config) { c.Workers = -1 },
		"epochs":   func(c *Config) { c.Selftest.Epochs = 0 },
		"rotation": func(c *Config) { c.Log.MaxAgeDays = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestSchnorrOptions(t *testing.T) {
	c := Default()
	c.Network = "mainnet"
	opts, err := c.SchnorrOptions()
	require.NoError(t, err)

	s := schnorr.New(opts...)
	assert.Equal(t, schnorr.Blake2bChallenger{Network: schnorr.Mainnet}, s.Challenger())

	c.Nonce = "bogus"
	_, err = c.SchnorrOptions()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
