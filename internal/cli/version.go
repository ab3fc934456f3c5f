package cli

import (
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.print(cmd, "mina-signer "+formatVersion(info), info)
		},
	}
}
