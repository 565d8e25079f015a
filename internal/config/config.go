// Package config holds the runtime configuration of numcrypt.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Command identifies the subcommand a Config is validated for.
type Command string

const (
	// CommandEncode turns files into numeric text.
	CommandEncode Command = "encode"
	// CommandDecode turns numeric text back into files.
	CommandDecode Command = "decode"
	// CommandGenerate creates a key pair.
	CommandGenerate Command = "generate"
)

// Stdio is the file name that selects standard input and output.
const Stdio = "-"

// Config holds the configuration for all subcommands.
type Config struct {
	// Common flags
	Show       bool   `yaml:"show"`
	Parallel   int    `yaml:"parallel"   label:"--parallel" validate:"min=1"`
	Quiet      bool   `yaml:"quiet"`
	Stats      bool   `yaml:"stats"`
	Delete     bool   `yaml:"delete"`
	Width      int    `yaml:"width"      label:"--width"    validate:"min=1"`
	Level      int    `yaml:"level"      label:"--level"    validate:"min=-2,max=9"`
	ConfigFile string `yaml:"config"     mapstructure:"config"`

	EncodeExt string `yaml:"encode-ext" mapstructure:"encode-ext" label:"--encode-ext" validate:"required"`
	DecodeExt string `yaml:"decode-ext" mapstructure:"decode-ext"`

	// Key material
	PublicKey    string `yaml:"public-key"    mapstructure:"public-key"    label:"--public-key"    validate:"exclusive=Password,exclusive=PasswordFile"` //nolint:lll
	PrivateKey   string `yaml:"private-key"   mapstructure:"private-key"   label:"--private-key"   validate:"exclusive=Password,exclusive=PasswordFile"` //nolint:lll
	Password     string `yaml:"-"             mapstructure:"password"      label:"--password"      validate:"exclusive=PasswordFile"`
	PasswordFile string `yaml:"password-file" mapstructure:"password-file" label:"--password-file"`
	Iterations   int    `yaml:"iterations"    mapstructure:"iterations"    label:"--iterations"    validate:"omitempty,min=1,max=10000000"`

	// Key generation
	Bits  int    `yaml:"bits"  label:"--bits" validate:"omitempty,min=1024,max=16384"`
	Out   string `yaml:"out"   label:"--out"`
	Force bool   `yaml:"force"`

	// Set by the subcommand
	Command Command  `yaml:"command" mapstructure:"-"`
	Files   []string `yaml:"files"   mapstructure:"-"`
}

// Validate checks the configuration for the selected command.
func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return describe(err)
	}

	switch c.Command {
	case CommandEncode:
		if c.PrivateKey != "" {
			return errors.New("encode takes a public key, not --private-key")
		}

		return c.validateFiles(c.PublicKey != "")
	case CommandDecode:
		if c.PublicKey != "" {
			return errors.New("decode takes a private key, not --public-key")
		}

		return c.validateFiles(c.PrivateKey != "")
	case CommandGenerate:
		if c.Bits == 0 || c.Out == "" {
			return errors.New("generate requires --bits and --out")
		}

		return nil
	default:
		return fmt.Errorf("unknown command %q", c.Command)
	}
}

func (c *Config) validateFiles(hasKey bool) error {
	if !hasKey && c.Password == "" && c.PasswordFile == "" {
		return fmt.Errorf("%s requires a key or a password", c.Command)
	}

	if len(c.Files) == 0 {
		return errors.New("at least one file is required")
	}

	for _, file := range c.Files {
		if file == Stdio && len(c.Files) > 1 {
			return fmt.Errorf("%q must be the only file argument", Stdio)
		}
	}

	return nil
}

// Secret returns the configured password, reading it from the password file if needed.
// A single trailing newline in the file is ignored.
func (c *Config) Secret() (string, error) {
	if c.PasswordFile == "" {
		return c.Password, nil
	}

	data, err := os.ReadFile(filepath.Clean(c.PasswordFile))
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}

	secret := strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
	if secret == "" {
		return "", fmt.Errorf("password file %q is empty", c.PasswordFile)
	}

	return secret, nil
}
