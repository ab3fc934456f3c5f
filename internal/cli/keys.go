package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-mina-signer/internal/protocol/address"
	"github.com/smallyu/go-mina-signer/internal/protocol/keys"
)

type addressOutput struct {
	Address string `json:"address"`
	X       string `json:"x"`
	IsOdd   bool   `json:"is_odd"`
}

func newAddressCmd(a *app) *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive the address of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kp, err := kf.keypair()
			if err != nil {
				return err
			}
			defer kp.Zero()

			pk := kp.PublicKey()
			addr := address.Encode(pk)
			a.logger.Debug().Str("address", addr).Msg("derived address")
			return a.print(cmd, addr, addressOutput{Address: addr, X: pk.X.Hex(), IsOdd: pk.IsOdd})
		},
	}
	addKeyFlags(cmd, &kf)
	return cmd
}

type keygenOutput struct {
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
}

func newKeygenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random private key and print it with its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.gate(); err != nil {
				return err
			}
			kp, err := keys.Generate()
			if err != nil {
				return err
			}
			defer kp.Zero()

			out := keygenOutput{PrivateKey: kp.PrivateHex(), Address: address.Encode(kp.PublicKey())}
			a.logger.Warn().Str("address", out.Address).Msg("private key written to stdout")
			return a.print(cmd, fmt.Sprintf("%s\n%s", out.PrivateKey, out.Address), out)
		},
	}
}
