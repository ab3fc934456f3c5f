package cli

import (
	"github.com/spf13/cobra"

	"github.com/smallyu/go-mina-signer/internal/crypto/schnorr"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
	"github.com/smallyu/go-mina-signer/internal/protocol/transaction"
)

// noExpiry is the largest global slot, meaning the transaction never
// expires.
const noExpiry = ^uint32(0)

type txFlags struct {
	to         string
	amount     uint64
	fee        uint64
	nonce      uint32
	validUntil uint32
	memo       string
	delegation bool
}

func addTxFlags(cmd *cobra.Command, f *txFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.to, "to", "", "receiver address, or the delegate for --delegation")
	fs.Uint64Var(&f.amount, "amount", 0, "amount in nanomina (ignored for delegations)")
	fs.Uint64Var(&f.fee, "fee", 0, "fee in nanomina")
	fs.Uint32Var(&f.nonce, "nonce", 0, "sender account nonce")
	fs.Uint32Var(&f.validUntil, "valid-until", noExpiry, "last global slot the transaction is valid in")
	fs.StringVar(&f.memo, "memo", "", "memo, truncated to 32 bytes")
	fs.BoolVar(&f.delegation, "delegation", false, "sign a stake delegation instead of a payment")
	_ = cmd.MarkFlagRequired("to")
}

func (f *txFlags) build(from string) (*transaction.Transaction, error) {
	p := transaction.Params{
		From:       from,
		To:         f.to,
		Amount:     f.amount,
		Fee:        f.fee,
		Nonce:      f.nonce,
		ValidUntil: f.validUntil,
		Memo:       f.memo,
	}
	var (
		tx  *transaction.Transaction
		err error
	)
	if f.delegation {
		tx, err = transaction.NewDelegation(p)
	} else {
		tx, err = transaction.NewPayment(p)
	}
	if err != nil {
		return nil, withExitCode(ExitInvalidInput, err)
	}
	return tx, nil
}

type signOutput struct {
	Kind       string `json:"kind"`
	From       string `json:"from"`
	To         string `json:"to"`
	Amount     uint64 `json:"amount"`
	Fee        uint64 `json:"fee"`
	Nonce      uint32 `json:"nonce"`
	ValidUntil uint32 `json:"valid_until"`
	Memo       string `json:"memo"`
	Signature  string `json:"signature"`
}

func newSignCmd(a *app) *cobra.Command {
	var (
		kf keyFlags
		tf txFlags
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a payment or delegation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.gate(); err != nil {
				return err
			}
			s, err := a.signer()
			if err != nil {
				return err
			}

			kp, err := kf.keypair()
			if err != nil {
				return err
			}
			defer kp.Zero()

			from := address.Encode(kp.PublicKey())
			tx, err := tf.build(from)
			if err != nil {
				return err
			}

			sig, err := s.SignHex(kp, tx)
			if err != nil {
				a.logger.Error().Err(err).Str("from", from).Msg("signing failed")
				return err
			}
			a.logger.Info().
				Str("kind", tx.Kind.String()).
				Str("from", from).
				Uint32("nonce", tx.Nonce).
				Msg("transaction signed")

			return a.print(cmd, sig, signOutput{
				Kind:       tx.Kind.String(),
				From:       from,
				To:         tf.to,
				Amount:     tx.Amount,
				Fee:        tx.Fee,
				Nonce:      tx.Nonce,
				ValidUntil: tx.ValidUntil,
				Memo:       tx.Memo.Text(),
				Signature:  sig,
			})
		},
	}
	addKeyFlags(cmd, &kf)
	addTxFlags(cmd, &tf)
	return cmd
}

type verifyOutput struct {
	Valid bool `json:"valid"`
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		from string
		sig  string
		tf   txFlags
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a transaction signature",
		Long:  "Verify a transaction signature. Exits with status 1 when the signature does not verify.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.signer()
			if err != nil {
				return err
			}
			tx, err := tf.build(from)
			if err != nil {
				return err
			}

			ok := s.VerifyHex(sig, from, tx)
			text := "valid"
			if !ok {
				text = "invalid"
			}
			if err := a.print(cmd, text, verifyOutput{Valid: ok}); err != nil {
				return err
			}
			if !ok {
				return schnorr.ErrInvalidSignature
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "sender address")
	cmd.Flags().StringVar(&sig, "signature", "", "128 hex character signature")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("signature")
	addTxFlags(cmd, &tf)
	return cmd
}
