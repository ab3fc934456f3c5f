package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smallyu/go-mina-signer/internal/config"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

// Exit codes for the CLI.
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2

	// ExitSelftestFailed matches the code hardware wallet tooling expects
	// when the curve checks fail.
	ExitSelftestFailed = 211
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	ConfigFile string
	Network    string
	Nonce      string
	Output     string
	Workers    int
	LogLevel   string
	LogFile    string
	Epochs     int
}

// AddGlobalFlags adds the persistent flags to the root command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	d := config.Default()
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.Network, "network", d.Network, "network id (testnet|mainnet)")
	pf.StringVar(&flags.Nonce, "nonce", d.Nonce, "nonce derivation (blake2b|rfc6979)")
	pf.StringVarP(&flags.Output, "output", "o", d.Output, "output format (text|json)")
	pf.IntVar(&flags.Workers, "workers", d.Workers, "parallel signers for batches (0 = GOMAXPROCS)")
	pf.StringVar(&flags.LogLevel, "log-level", d.Log.Level, "log level (debug|info|warn|error)")
	pf.StringVar(&flags.LogFile, "log-file", d.Log.File, "rotating log file, disabled when empty")
	pf.IntVar(&flags.Epochs, "epochs", d.Selftest.Epochs, "self-test epochs")
}

// flagKeys maps config keys to root flag names.
var flagKeys = map[string]string{
	"network":         "network",
	"nonce":           "nonce",
	"output":          "output",
	"workers":         "workers",
	"log.level":       "log-level",
	"log.file":        "log-file",
	"selftest.epochs": "epochs",
}

// BindGlobalFlags binds the root flags to v. A flag only overrides the
// config file and MINA_SIGNER_* variables when it is set explicitly.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCodeForError returns the process exit code for err.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, selftest.ErrLawViolated) {
		return ExitSelftestFailed
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}
	return ExitError
}

// isInvalidInputError catches cobra's own argument and flag errors.
func isInvalidInputError(msg string) bool {
	for _, p := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "invalid argument", "flag needs an argument", "accepts ", "requires at least", "required flag"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
