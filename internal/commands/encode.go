package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/logic"
	"github.com/idelchi/numcrypt/internal/password"
)

// NewEncodeCommand creates a new cobra command for the encode subcommand.
func NewEncodeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encode [flags] files...",
		Aliases: []string{"enc"},
		Short:   "Encode files into numeric text",
		Long: `Encrypts, compresses and error-protects each file and writes it as numeric
text to <file><encode-ext>. Use "-" to read standard input and write standard output.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.CommandEncode),
		RunE:    run(cfg, logic.Run),
	}

	cmd.Flags().StringP("public-key", "k", "", "Path to the recipient's public key")
	cmd.Flags().Int("iterations", password.DefaultIterations, "PBKDF2 iterations for password encryption")
	secretFlags(cmd)

	return cmd
}

func secretFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("password", "p", "", "Password for symmetric encryption")
	cmd.Flags().StringP("password-file", "P", "", "Path to a file holding the password")
}
