package cli

import (
	"fmt"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/0xalexb/hjarta-config/config"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Load a document with its includes and report whether it is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := hconfig.Load(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck // names the document
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s/%s %s %s (%s)\n",
				args[0], cfg.Header.ApplicationGroup, cfg.Header.ApplicationName,
				cfg.Header.Name, cfg.Header.Version, cfg.State())

			return err //nolint:wrapcheck // write to stdout
		},
	}
}

func newConvertCommand() *cobra.Command {
	var (
		to      string
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Print a document in another format",
		Long: `Print a document in another format. Includes stay include directives and
property references stay unexpanded unless --resolve is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Configuration
				err error
			)

			if resolve {
				cfg, err = hconfig.Load(cmd.Context(), args[0])
			} else {
				cfg, err = loadRaw(cmd, args[0])
			}

			if err != nil {
				return err //nolint:wrapcheck // names the document
			}

			return write(cmd, cfg, to)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", hconfig.FormatYAML, "target format: json, yaml or xml")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "expand ${property} references")

	return cmd
}
