package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-mina-signer/internal/config"
	"github.com/smallyu/go-mina-signer/internal/jsonx"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
)

// privateKeyEnv is read when neither --key nor --key-file is given. It is
// deliberately not a config key so it never lands in a config file.
const privateKeyEnv = "MINA_SIGNER_PRIVATE_KEY"

// print writes text, or v as one JSON line when --output json is set.
func (a *app) print(cmd *cobra.Command, text string, v interface{}) error {
	out := cmd.OutOrStdout()
	if a.cfg.Output == config.OutputJSON {
		return jsonx.NewEncoder(out).Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}

type keyFlags struct {
	key     string
	keyFile string
}

func addKeyFlags(cmd *cobra.Command, f *keyFlags) {
	cmd.Flags().StringVar(&f.key, "key", "", "private key as 64 hex characters")
	cmd.Flags().StringVar(&f.keyFile, "key-file", "", "file holding the private key")
	cmd.MarkFlagsMutuallyExclusive("key", "key-file")
}

// keypair loads the private key from the flags or the environment.
func (f *keyFlags) keypair() (*keys.Keypair, error) {
	h := f.key
	switch {
	case h != "":
	case f.keyFile != "":
		b, err := os.ReadFile(f.keyFile)
		if err != nil {
			return nil, withExitCode(ExitInvalidInput, fmt.Errorf("read key file: %w", err))
		}
		h = strings.TrimSpace(string(b))
	default:
		h = os.Getenv(privateKeyEnv)
	}
	if h == "" {
		return nil, withExitCode(ExitInvalidInput, fmt.Errorf("no private key: use --key, --key-file or %s", privateKeyEnv))
	}

	kp, err := keys.FromHex(h)
	if err != nil {
		return nil, withExitCode(ExitInvalidInput, err)
	}
	return kp, nil
}
