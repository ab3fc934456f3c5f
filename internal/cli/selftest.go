package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-mina-signer/internal/config"
	"github.com/smallyu/go-mina-signer/internal/fixtures"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
	"github.com/smallyu/go-mina-signer/internal/protocol/sign"
	"github.com/smallyu/go-mina-signer/internal/report"
	"github.com/smallyu/go-mina-signer/internal/selftest"
)

func newSelftestCmd(a *app) *cobra.Command {
	var (
		mode      string
		vectors   bool
		constants bool
	)
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the arithmetic self-test and print test vectors",
		Long: `Run the curve checks: scalars chained through SHA-256, their points and the
results of six algebraic laws per epoch. Exits with status 211 when a law
fails.

--mode ledger prints address and signing assertions for the hardware wallet
test suite followed by the curve constants as byte arrays. --mode verbose
prints one line per vector, and the constants as Montgomery limbs with
--constants. --mode json prints one object per vector and epoch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if mode == "" {
				mode = report.Verbose.String()
				if a.cfg.Output == config.OutputJSON {
					mode = report.JSON.String()
				}
			}
			m, err := report.ParseMode(mode)
			if err != nil {
				return withExitCode(ExitInvalidInput, err)
			}

			res, err := selftest.Run(a.cfg.Selftest.Epochs)
			if err != nil {
				a.logger.Error().Err(err).Msg("curve checks failed")
				return err
			}
			a.logger.Info().Int("epochs", len(res.Epochs)).Msg("curve checks passed")

			w := report.New(cmd.OutOrStdout(), m)
			if vectors {
				s, err := a.signer()
				if err != nil {
					return err
				}
				if err := writeVectors(w, s); err != nil {
					return err
				}
			}
			if m != report.Verbose || constants {
				w.CurveChecks(res)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "curve checks passed (%d epochs)\n", len(res.Epochs))
			}
			return w.Err()
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "output mode (verbose|ledger|json), json when --output json")
	cmd.Flags().BoolVar(&vectors, "vectors", false, "also derive and sign the reference vectors")
	cmd.Flags().BoolVar(&constants, "constants", false, "print the curve constants in verbose mode")
	return cmd
}

// writeVectors derives every reference address and signs every reference
// transaction with s. An address that differs from its vector is an error;
// signatures depend on the configured challenger and are printed as produced.
func writeVectors(w *report.Writer, s *sign.Signer) error {
	set, err := fixtures.Load()
	if err != nil {
		return err
	}

	w.AddressHeader()
	for _, c := range set.Addresses {
		kp, err := keys.FromHex(c.PrivateKey)
		if err != nil {
			return fmt.Errorf("account %s: %w", c.Account, err)
		}
		addr := address.Encode(kp.PublicKey())
		kp.Zero()
		if addr != c.Address {
			return fmt.Errorf("account %s: derived %s, want %s", c.Account, addr, c.Address)
		}
		w.Address(report.AddressEntry{Account: c.Account, PrivateKey: c.PrivateKey, Address: addr})
	}

	for _, c := range set.Signatures {
		kp, err := keys.FromHex(c.PrivateKey)
		if err != nil {
			return fmt.Errorf("account %s: %w", c.Account, err)
		}
		from := address.Encode(kp.PublicKey())
		tx, err := c.Transaction(from)
		if err != nil {
			kp.Zero()
			return fmt.Errorf("account %s: %w", c.Account, err)
		}
		sig, err := s.SignHex(kp, tx)
		kp.Zero()
		if err != nil {
			return fmt.Errorf("account %s: %w", c.Account, err)
		}
		w.Signature(report.SignEntry{
			Account:    c.Account,
			PrivateKey: c.PrivateKey,
			Source:     from,
			Receiver:   c.Receiver,
			Amount:     tx.Amount,
			Fee:        c.Fee,
			Nonce:      c.Nonce,
			ValidUntil: c.ValidUntil,
			Memo:       c.Memo,
			Delegation: c.Delegation,
			Signature:  sig,
		})
	}
	return w.Err()
}
