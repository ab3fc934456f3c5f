package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-mina-signer/internal/jsonx"
	"github.com/smallyu/go-mina-signer/internal/protocol/address"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
	"github.com/smallyu/go-mina-signer/internal/protocol/sign"
)

// batchItem is one entry of a batch file.
type batchItem struct {
	PrivateKey string `json:"private_key" yaml:"private_key"`
	Delegation bool   `json:"delegation" yaml:"delegation"`
	To         string `json:"to" yaml:"to"`
	Amount     uint64 `json:"amount" yaml:"amount"`
	Fee        uint64 `json:"fee" yaml:"fee"`
	Nonce      uint32 `json:"nonce" yaml:"nonce"`
	ValidUntil uint32 `json:"valid_until" yaml:"valid_until"`
	Memo       string `json:"memo" yaml:"memo"`
}

// readBatch decodes a JSON file (by extension) or a YAML file.
func readBatch(path string) ([]batchItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []batchItem
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = jsonx.Unmarshal(data, &items)
	} else {
		err = yaml.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

func (it *batchItem) request() (sign.Request, error) {
	kp, err := keys.FromHex(it.PrivateKey)
	if err != nil {
		return sign.Request{}, err
	}
	tf := txFlags{
		to:         it.To,
		amount:     it.Amount,
		fee:        it.Fee,
		nonce:      it.Nonce,
		validUntil: it.ValidUntil,
		memo:       it.Memo,
		delegation: it.Delegation,
	}
	tx, err := tf.build(address.Encode(kp.PublicKey()))
	if err != nil {
		kp.Zero()
		return sign.Request{}, err
	}
	return sign.Request{Keypair: kp, Tx: tx}, nil
}

type batchOutput struct {
	Index     int    `json:"index"`
	Kind      string `json:"kind"`
	From      string `json:"from"`
	Nonce     uint32 `json:"nonce"`
	Signature string `json:"signature"`
}

func newSignBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sign-batch FILE",
		Short: "Sign every transaction listed in a YAML or JSON file",
		Long: `Sign every transaction listed in FILE, a YAML list (or a JSON array when
the name ends in .json) of objects with the fields private_key, to, amount,
fee, nonce, valid_until, memo and delegation. Up to --workers signatures are
computed in parallel and printed in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gate(); err != nil {
				return err
			}
			s, err := a.signer()
			if err != nil {
				return err
			}

			items, err := readBatch(args[0])
			if err != nil {
				return withExitCode(ExitInvalidInput, err)
			}

			reqs := make([]sign.Request, 0, len(items))
			defer func() {
				for _, r := range reqs {
					r.Keypair.Zero()
				}
			}()
			for i := range items {
				r, err := items[i].request()
				if err != nil {
					return withExitCode(ExitInvalidInput, fmt.Errorf("entry %d: %w", i, err))
				}
				reqs = append(reqs, r)
			}

			sigs, err := s.SignBatch(cmd.Context(), reqs, a.cfg.Workers)
			if err != nil {
				return err
			}
			a.logger.Info().Int("count", len(sigs)).Int("workers", a.cfg.Workers).Msg("batch signed")

			for i, sig := range sigs {
				tx := reqs[i].Tx
				out := batchOutput{
					Index:     i,
					Kind:      tx.Kind.String(),
					From:      address.Encode(tx.FeePayer),
					Nonce:     tx.Nonce,
					Signature: sig.Hex(),
				}
				if err := a.print(cmd, out.From+" "+out.Signature, out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
