package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/keys"
	"github.com/idelchi/numcrypt/internal/logic"
)

// NewGenerateCommand creates a new cobra command for the generate subcommand.
func NewGenerateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate an RSA key pair",
		Long: `Generates an RSA key pair and writes it as PKCS#1 PEM to <out>.pem
(private, mode 0600) and <out>.pub.pem (public).`,
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg, config.CommandGenerate),
		RunE:    run(cfg, logic.RunGenerate),
	}

	cmd.Flags().IntP("bits", "b", keys.DefaultBits, "Modulus size in bits")
	cmd.Flags().StringP("out", "o", "numcrypt", "Output prefix for the key files")
	cmd.Flags().BoolP("force", "f", false, "Overwrite existing key files")

	return cmd
}
