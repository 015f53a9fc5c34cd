// Package cli implements the hconfig command line.
package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/0xalexb/hjarta-config/logging"
	"github.com/spf13/cobra"
)

// PassphraseEnv is read when a command needs a passphrase and --passphrase is not set.
const PassphraseEnv = "HCONFIG_PASSPHRASE"

var (
	// ErrNotFound is returned when a search path matches nothing.
	ErrNotFound = errors.New("no node matches the search path")
	// ErrNotValue is returned when a command needs a value node and the path selects something else.
	ErrNotValue = errors.New("search path does not select a value node")
	// ErrNoPassphrase is returned when neither --passphrase nor the environment supplies one.
	ErrNoPassphrase = errors.New("no passphrase given")
)

type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the hconfig command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{logLevel: "warn", logFormat: logging.FormatText}

	root := &cobra.Command{
		Use:   "hconfig",
		Short: "Query and serve hierarchical configuration documents",
		Long: `hconfig loads XML, JSON and YAML configuration documents, resolves their
includes and ${property} references, and answers search path queries such as

  /billing/server/host
  /billing@env
  /billing/currencies[1]
  /billing/**/endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logging.NewLogger(logging.LoggerConfig{Level: flags.logLevel, Format: flags.logFormat}, cmd.ErrOrStderr())
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", flags.logLevel, "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", flags.logFormat, "log format: text or json")

	root.AddCommand(
		newFindCommand(),
		newValidateCommand(),
		newConvertCommand(),
		newEncryptCommand(),
		newResourcesCommand(),
		newServeCommand(flags),
		newVersionCommand(),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute() //nolint:wrapcheck // cobra errors are already descriptive
}

func passphrase(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	if env := os.Getenv(PassphraseEnv); env != "" {
		return env, nil
	}

	return "", ErrNoPassphrase
}
