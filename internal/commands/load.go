package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/idelchi/numcrypt/internal/config"
)

// EnvPrefix prefixes the environment variables that mirror the flags.
const EnvPrefix = "NUMCRYPT"

// load merges flags, environment and the config file into cfg.
// Precedence is: explicit flags, environment, config file, flag defaults.
func load(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}

		v.SetConfigType("json")

		if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
			return fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that records the command and its positional
// args in cfg and validates the configuration.
func preRun(cfg *config.Config, command config.Command) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Command = command
		cfg.Files = args

		return cfg.Validate()
	}
}

// run wraps fn so that --show prints the configuration instead of running it.
func run(cfg *config.Config, fn func(*config.Config) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if !cfg.Show {
			return fn(cfg)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}

		if cfg.Password != "" {
			out = append(out, "password: '***'\n"...)
		}

		_, err = cmd.OutOrStdout().Write(out)

		return err
	}
}
