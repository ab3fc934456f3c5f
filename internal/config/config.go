// Package config loads signer settings from defaults, an optional YAML file
// and MINA_SIGNER_* environment variables, in increasing precedence.
package config

import (
	stderrors "errors"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/smallyu/go-mina-signer/internal/crypto/schnorr"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores (log.level -> MINA_SIGNER_LOG_LEVEL).
const EnvPrefix = "MINA_SIGNER"

// Nonce derivation names.
const (
	NonceBlake2b = "blake2b"
	NonceRFC6979 = "rfc6979"
)

// Output format names.
const (
	OutputText = "text"
	OutputJSON = "json"
)

var ErrInvalidConfig = stderrors.New("config: invalid configuration")

// Config is the full signer configuration.
type Config struct {
	Network  string         `mapstructure:"network"`
	Nonce    string         `mapstructure:"nonce"`
	Output   string         `mapstructure:"output"`
	Workers  int            `mapstructure:"workers"`
	Log      LogConfig      `mapstructure:"log"`
	Selftest SelftestConfig `mapstructure:"selftest"`
}

// LogConfig controls the logger. An empty File disables the rotating file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// SelftestConfig controls the startup arithmetic check.
type SelftestConfig struct {
	Epochs int `mapstructure:"epochs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Network: "testnet",
		Nonce:   NonceBlake2b,
		Output:  OutputText,
		Workers: 0,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxAgeDays: 30,
			MaxBackups: 3,
		},
		Selftest: SelftestConfig{Epochs: selftest.DefaultEpochs},
	}
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("network", d.Network)
	v.SetDefault("nonce", d.Nonce)
	v.SetDefault("output", d.Output)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("selftest.epochs", d.Selftest.Epochs)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and returns the
// validated configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated value and bound.
func (c *Config) Validate() error {
	if _, err := schnorr.ParseNetwork(c.Network); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "network %q", c.Network)
	}
	if _, err := schnorr.ParseNonce(c.Nonce); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "nonce %q must be %s or %s", c.Nonce, NonceBlake2b, NonceRFC6979)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return errors.Wrapf(ErrInvalidConfig, "output %q must be %s or %s", c.Output, OutputText, OutputJSON)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "workers %d is negative", c.Workers)
	}
	if c.Selftest.Epochs <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "selftest.epochs %d must be positive", c.Selftest.Epochs)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxAgeDays < 0 || c.Log.MaxBackups < 0 {
		return errors.Wrap(ErrInvalidConfig, "log rotation limits must not be negative")
	}
	return nil
}

// SchnorrOptions turns the network and nonce settings into signer options.
func (c *Config) SchnorrOptions() ([]schnorr.Option, error) {
	n, err := schnorr.ParseNetwork(c.Network)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	nonce, err := schnorr.ParseNonce(c.Nonce)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return []schnorr.Option{schnorr.WithNetwork(n), schnorr.WithNonce(nonce)}, nil
}
