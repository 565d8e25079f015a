package logic

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/numcrypt/internal/config"
)

// resolveFiles expands directories in cfg.Files into the files they contain.
// Explicit files are kept as given. Inside directories, decoding picks files
// carrying the encode suffix and encoding skips them.
// Returns the total number of files scanned.
func resolveFiles(cfg *config.Config) (int, error) {
	if len(cfg.Files) == 1 && cfg.Files[0] == config.Stdio {
		return 1, nil
	}

	var (
		files   []string
		scanned int
	)

	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range cfg.Files {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return scanned, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			scanned++

			if wanted(cfg, path) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return scanned, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	if len(files) == 0 {
		return scanned, fmt.Errorf("no files to %s in %v", cfg.Command, cfg.Files)
	}

	cfg.Files = files

	return scanned, nil
}

// wanted reports whether a file found inside a directory should be processed.
func wanted(cfg *config.Config, path string) bool {
	encoded := strings.HasSuffix(path, cfg.EncodeExt)

	if cfg.Command == config.CommandDecode {
		return encoded
	}

	return !encoded
}
