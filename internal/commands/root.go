package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/numtext"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "numcrypt [flags] command [flags]",
		Short: "Encrypt messages into error-correcting digit groups",
		Long: `Encrypts messages with an RSA key pair or a password and writes them as
groups of three decimal digits, protected by a Reed-Solomon code that corrects
up to 64 wrong groups in every block of 255.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return load(cmd, cfg)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary after processing")
	flags.BoolP("delete", "d", false, "Delete the original file after successful encoding/decoding")
	flags.IntP("width", "w", numtext.DefaultWidth, "Number of digit groups per output line")
	flags.IntP("level", "l", 0, "Compression level (1-9, 0 for the default, -2 for Huffman only)")
	flags.StringP("config", "c", "", "Path to a JSON or JSONC config file")

	flags.String("encode-ext", ".num", "Suffix to append to encoded files")
	flags.String("decode-ext", "", "Suffix to append to decoded files, after stripping the encoded suffix")

	root.AddCommand(NewGenerateCommand(cfg), NewEncodeCommand(cfg), NewDecodeCommand(cfg))

	return root
}
