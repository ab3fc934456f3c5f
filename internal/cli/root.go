// Package cli provides the mina-signer command line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smallyu/go-mina-signer/internal/config"
	"github.com/smallyu/go-mina-signer/internal/logging"
	"github.com/smallyu/go-mina-signer/internal/protocol/sign"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// app is the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	flags  *GlobalFlags
	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer

	// logOutput overrides the log console, for tests.
	logOutput io.Writer
}

func (a *app) init(cmd *cobra.Command) error {
	if err := BindGlobalFlags(a.v, cmd); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.Load(a.v, a.flags.ConfigFile)
	if err != nil {
		return withExitCode(ExitInvalidInput, err)
	}
	a.cfg = cfg

	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    a.logOutput,
	})
	if err != nil {
		return withExitCode(ExitInvalidInput, fmt.Errorf("log level: %w", err))
	}
	a.logger = logger
	a.closer = closer

	a.logger.Debug().
		Str("network", cfg.Network).
		Str("nonce", cfg.Nonce).
		Int("selftest_epochs", cfg.Selftest.Epochs).
		Msg("configuration loaded")
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}

// gate runs the arithmetic self-test once per process. Commands that
// produce signatures call it before touching a key.
func (a *app) gate() error {
	if err := selftest.Gate(a.cfg.Selftest.Epochs); err != nil {
		a.logger.Error().Err(err).Msg("arithmetic self-test failed, refusing to sign")
		return err
	}
	a.logger.Debug().Msg("arithmetic self-test passed")
	return nil
}

func (a *app) signer() (*sign.Signer, error) {
	opts, err := a.cfg.SchnorrOptions()
	if err != nil {
		return nil, withExitCode(ExitInvalidInput, err)
	}
	return sign.New(opts...), nil
}

func newRootCmd(a *app, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mina-signer",
		Short: "Reference signer for Mina legacy payments and delegations",
		Long: `mina-signer derives Mina addresses from private keys and signs legacy
payment and delegation transactions on the Pallas curve.

Every signing command first runs an arithmetic self-test and refuses to sign
when it fails.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, a.flags)

	cmd.AddCommand(
		newAddressCmd(a),
		newKeygenCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newSignBatchCmd(a),
		newSelftestCmd(a),
		newVersionCmd(a, info),
	)
	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

func newApp() *app {
	return &app{v: config.NewViper(), flags: &GlobalFlags{}}
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	a := newApp()
	defer a.close()
	return newRootCmd(a, info).ExecuteContext(ctx)
}
