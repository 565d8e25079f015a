// Package logic implements batch encoding, decoding and key generation for the CLI.
package logic

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/keys"
)

// Run encodes or decodes the files named in cfg.
func Run(cfg *config.Config) error {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	proc, err := NewProcessor(cfg)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	var (
		processed, errored int
		totalSize          int64
	)

	if len(cfg.Files) == 1 && cfg.Files[0] == config.Stdio {
		totalSize, err = proc.ProcessStream(os.Stdout, os.Stdin)
		if err != nil {
			errored++
		} else {
			processed++
		}
	} else {
		processed, errored, totalSize, err = proc.ProcessFiles()
	}

	if cfg.Stats {
		printStats(scanned, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running %s: %w", cfg.Command, err)
	}

	return nil
}

// RunGenerate creates a key pair and writes it next to cfg.Out.
func RunGenerate(cfg *config.Config) error {
	priv, err := keys.Generate(cfg.Bits)
	if err != nil {
		return err
	}

	private, public, err := keys.Save(priv, cfg.Out, cfg.Force)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Printf("Generated %d-bit key pair\n", cfg.Bits) //nolint:forbidigo
		fmt.Printf("  Private: %q\n", private)              //nolint:forbidigo
		fmt.Printf("  Public:  %q\n", public)               //nolint:forbidigo
	}

	return nil
}

func printStats(scanned, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
