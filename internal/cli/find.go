package cli

import (
	"fmt"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/secret"
	"github.com/spf13/cobra"
)

func newFindCommand() *cobra.Command {
	var (
		format  string
		decrypt bool
		pass    string
	)

	cmd := &cobra.Command{
		Use:   "find FILE PATH",
		Short: "Print the node selected by a search path",
		Long: `Print the node selected by a search path. Single values print as plain text;
everything else is rendered in --format. With --decrypt an encrypted value is
decrypted with the passphrase from --passphrase or ` + PassphraseEnv + `.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := hconfig.Load(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck // names the document
			}

			node := cfg.Find(args[1])
			if node == nil {
				return fmt.Errorf("%w: %s", ErrNotFound, args[1])
			}

			value, ok := node.(*config.ValueNode)
			if !ok {
				var data []byte

				data, err = hconfig.EncodeNode(node, format)
				if err != nil {
					return err //nolint:wrapcheck // encoders describe their errors
				}

				_, err = cmd.OutOrStdout().Write(append(data, '\n'))

				return err //nolint:wrapcheck // write to stdout
			}

			text := value.Value()

			if decrypt && value.Encrypted() {
				text, err = decryptValue(cfg, value, pass)
				if err != nil {
					return err
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)

			return err //nolint:wrapcheck // write to stdout
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", hconfig.FormatJSON, "output format for non-value nodes: json, yaml or xml")
	cmd.Flags().BoolVar(&decrypt, "decrypt", false, "decrypt encrypted values")
	cmd.Flags().StringVar(&pass, "passphrase", "", "passphrase for encrypted values")

	return cmd
}

func decryptValue(cfg *config.Configuration, value *config.ValueNode, flag string) (string, error) {
	pass, err := passphrase(flag)
	if err != nil {
		return "", err
	}

	cipher, err := secret.ForConfiguration(pass, cfg)
	if err != nil {
		return "", err //nolint:wrapcheck // already descriptive
	}

	return value.Decrypt(cipher) //nolint:wrapcheck // already names the failure
}

func newEncryptCommand() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "encrypt FILE PATH",
		Short: "Encrypt a value in place and print the updated document",
		Long: `Encrypt the value selected by PATH with a key derived from the passphrase and
the document id, then print the whole document in its own format. Property
references are left unexpanded so the output can replace FILE.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := passphrase(pass)
			if err != nil {
				return err
			}

			cfg, err := loadRaw(cmd, args[0])
			if err != nil {
				return err
			}

			value, ok := cfg.Find(args[1]).(*config.ValueNode)
			if !ok {
				return fmt.Errorf("%w: %s", ErrNotValue, args[1])
			}

			cipher, err := secret.ForConfiguration(key, cfg)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			err = cipher.Seal(value)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			return write(cmd, cfg, hconfig.FormatOf(args[0]))
		},
	}

	cmd.Flags().StringVar(&pass, "passphrase", "", "passphrase; defaults to "+PassphraseEnv)

	return cmd
}

// loadRaw loads a document without expanding property references.
func loadRaw(cmd *cobra.Command, location string) (*config.Configuration, error) {
	settings := config.DefaultSettings()
	settings.DisableInterpolation = true

	return hconfig.Load(cmd.Context(), location, hconfig.WithSettings(settings)) //nolint:wrapcheck // names the document
}

func write(cmd *cobra.Command, cfg *config.Configuration, format string) error {
	data, err := hconfig.Encode(cfg, format)
	if err != nil {
		return err //nolint:wrapcheck // encoders describe their errors
	}

	_, err = cmd.OutOrStdout().Write(append(data, '\n'))

	return err //nolint:wrapcheck // write to stdout
}
