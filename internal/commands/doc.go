// Package commands provides the command-line interface for the numcrypt tool.
//
// It implements commands for:
//   - key generation
//   - encoding
//   - decoding
//
// Flags, NUMCRYPT_* environment variables and an optional JSONC config file
// are merged through viper and validated before any command runs.
package commands
