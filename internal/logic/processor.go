package logic

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/numcrypt/internal/codec"
	"github.com/idelchi/numcrypt/internal/compress"
	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/fileutil"
	"github.com/idelchi/numcrypt/internal/hybrid"
	"github.com/idelchi/numcrypt/internal/keys"
	"github.com/idelchi/numcrypt/internal/password"
)

// Processor encodes or decodes files with a single codec and key.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	codec *codec.Codec

	// exactly one of enc and dec is set, depending on the command
	enc codec.Encrypter
	dec codec.Decrypter

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a Processor for cfg, loading the key or password it names.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	cdc, err := codec.New(
		codec.WithCompressor(compress.Zlib{Level: cfg.Level}),
		codec.WithWidth(cfg.Width),
		codec.WithParallel(cfg.Parallel),
	)
	if err != nil {
		return nil, fmt.Errorf("creating codec: %w", err)
	}

	processor := &Processor{
		cfg:     cfg,
		codec:   cdc,
		results: make(chan Result, len(cfg.Files)),
	}

	switch {
	case cfg.PublicKey != "":
		pub, err := keys.LoadPublic(cfg.PublicKey)
		if err != nil {
			return nil, err
		}

		if processor.enc, err = hybrid.NewEncrypter(pub); err != nil {
			return nil, err
		}
	case cfg.PrivateKey != "":
		priv, err := keys.LoadPrivate(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}

		if processor.dec, err = hybrid.NewDecrypter(priv); err != nil {
			return nil, err
		}
	default:
		secret, err := cfg.Secret()
		if err != nil {
			return nil, err
		}

		var opts []password.Option
		if cfg.Iterations > 0 {
			opts = append(opts, password.WithIterations(cfg.Iterations))
		}

		cph, err := password.New(secret, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating password cipher: %w", err)
		}

		processor.enc, processor.dec = cph, cph
	}

	if cfg.Command == config.CommandDecode {
		processor.enc = nil
	} else {
		processor.dec = nil
	}

	return processor, nil
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Returns the number of successfully processed files, the number of errors
// and the total size of the outputs.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)
			} else {
				processed++

				totalSize += result.OutputSize

				if !p.cfg.Quiet {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete && result.Error == nil {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// ProcessStream processes reader into writer and returns the number of bytes written.
func (p *Processor) ProcessStream(writer io.Writer, reader io.Reader) (int64, error) {
	counter := &countingWriter{writer: writer}

	if err := p.process(counter, reader); err != nil {
		return counter.n, err
	}

	return counter.n, nil
}

func (p *Processor) process(writer io.Writer, reader io.Reader) error {
	if p.enc != nil {
		return p.codec.EncodeTo(writer, reader, p.enc)
	}

	plaintext, err := p.codec.DecodeFrom(reader, p.dec)
	if err != nil {
		return err
	}

	if _, err := io.Copy(writer, bytes.NewReader(plaintext)); err != nil {
		return fmt.Errorf("writing plaintext: %w", err)
	}

	return nil
}

// processFile handles a single file, writing the result atomically to outPath.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	const ownerReadWrite = 0o600

	if filepath.Clean(filename) == filepath.Clean(outPath) {
		return 0, fmt.Errorf("output %q would overwrite its input", outPath)
	}

	input, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer input.Close()

	tmp, err := fileutil.CreateTemp(outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tmp.CleanupOnError(&err)

	if err = p.process(tmp.File, input); err != nil {
		return 0, err
	}

	size, err = tmp.Commit(ownerReadWrite)
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.EncodeExt

	if p.cfg.Command == config.CommandDecode {
		filename = strings.TrimSuffix(filename, p.cfg.EncodeExt)
		ext = p.cfg.DecodeExt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

type countingWriter struct {
	writer io.Writer
	n      int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.n += int64(n)

	return n, err
}
