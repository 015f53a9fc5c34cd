package cli

import (
	"fmt"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hconfig %s (commit %s, built %s)\n",
				hconfig.Version, hconfig.Commit, hconfig.CompiledAt)

			return err //nolint:wrapcheck // write to stdout
		},
	}
}
