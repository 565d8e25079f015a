package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/logic"
)

// NewDecodeCommand creates a new cobra command for the decode subcommand.
func NewDecodeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decode [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decode numeric text back into files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.CommandDecode),
		RunE:    run(cfg, logic.Run),
	}

	cmd.Flags().StringP("private-key", "k", "", "Path to the private key")
	secretFlags(cmd)

	return cmd
}
