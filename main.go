// Command numcrypt encrypts messages into error-correcting numeric text.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/numcrypt/internal/commands"
	"github.com/idelchi/numcrypt/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "unknown - unofficial build"

func main() {
	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
