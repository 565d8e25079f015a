package logic_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/numcrypt/internal/config"
	"github.com/idelchi/numcrypt/internal/envelope"
	"github.com/idelchi/numcrypt/internal/keys"
	"github.com/idelchi/numcrypt/internal/logic"
)

func baseConfig(command config.Command, files ...string) *config.Config {
	return &config.Config{
		Parallel:   2,
		Quiet:      true,
		Width:      11,
		EncodeExt:  ".num",
		Iterations: 1000,
		Command:    command,
		Files:      files,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return string(data)
}

func TestRunPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	messages := map[string]string{
		"a.txt": "Hello world",
		"b.txt": strings.Repeat("the quick brown fox ", 200),
		"c.txt": "",
	}

	var files []string

	for name, content := range messages {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		files = append(files, path)
	}

	enc := baseConfig(config.CommandEncode, files...)
	enc.Password = "correct horse battery staple"

	if err := logic.Run(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var encoded []string

	for _, file := range files {
		text := readFile(t, file+".num")
		if strings.Trim(text, "0123456789 \n") != "" {
			t.Fatalf("%s.num contains more than digit groups", file)
		}

		encoded = append(encoded, file+".num")
	}

	dec := baseConfig(config.CommandDecode, encoded...)
	dec.Password = enc.Password
	dec.DecodeExt = ".out"

	if err := logic.Run(dec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for name, content := range messages {
		if got := readFile(t, filepath.Join(dir, name+".out")); got != content {
			t.Errorf("%s: decoded %d bytes, want %d", name, len(got), len(content))
		}
	}
}

func TestRunHybridDirectory(t *testing.T) {
	t.Parallel()

	keyDir := t.TempDir()
	msgDir := t.TempDir()

	gen := baseConfig(config.CommandGenerate)
	gen.Bits = keys.MinBits
	gen.Out = filepath.Join(keyDir, "id")

	if err := logic.RunGenerate(gen); err != nil {
		t.Fatalf("RunGenerate: %v", err)
	}

	private, public := keys.Paths(gen.Out)
	message := filepath.Join(msgDir, "msg.txt")
	writeFile(t, message, "attack at dawn")

	enc := baseConfig(config.CommandEncode, msgDir)
	enc.PublicKey = public
	enc.Delete = true

	if err := logic.Run(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := os.Stat(message); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("original not deleted: %v", err)
	}

	dec := baseConfig(config.CommandDecode, msgDir)
	dec.PrivateKey = private

	if err := logic.Run(dec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := readFile(t, message); got != "attack at dawn" {
		t.Errorf("decoded %q", got)
	}
}

func TestRunWrongPassword(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	writeFile(t, path, "launch codes")

	enc := baseConfig(config.CommandEncode, path)
	enc.Password = "right"

	if err := logic.Run(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := baseConfig(config.CommandDecode, path+".num")
	dec.Password = "wrong"
	dec.DecodeExt = ".out"

	err := logic.Run(dec)
	if !errors.Is(err, envelope.ErrDecryption) {
		t.Fatalf("decode error = %v, want ErrDecryption", err)
	}

	if strings.Contains(err.Error(), "launch codes") {
		t.Error("error leaks plaintext")
	}

	if _, err := os.Stat(path + ".out"); !errors.Is(err, os.ErrNotExist) {
		t.Error("output written for failed decode")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temporary file %q left behind", entry.Name())
		}
	}
}

func TestRunRefusesToOverwriteInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, path, "not encoded")

	dec := baseConfig(config.CommandDecode, path)
	dec.Password = "pw"

	if err := logic.Run(dec); err == nil || !strings.Contains(err.Error(), "overwrite") {
		t.Fatalf("Run() = %v, want overwrite error", err)
	}

	if got := readFile(t, path); got != "not encoded" {
		t.Errorf("input modified: %q", got)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	t.Parallel()

	dec := baseConfig(config.CommandDecode, t.TempDir())
	dec.Password = "pw"

	if err := logic.Run(dec); err == nil || !strings.Contains(err.Error(), "no files") {
		t.Fatalf("Run() = %v, want no files error", err)
	}
}

func TestRunGenerateRefusesOverwrite(t *testing.T) {
	t.Parallel()

	gen := baseConfig(config.CommandGenerate)
	gen.Bits = keys.MinBits
	gen.Out = filepath.Join(t.TempDir(), "id")

	if err := logic.RunGenerate(gen); err != nil {
		t.Fatalf("first RunGenerate: %v", err)
	}

	private, _ := keys.Paths(gen.Out)
	before := readFile(t, private)

	if err := logic.RunGenerate(gen); err == nil {
		t.Fatal("second RunGenerate succeeded without --force")
	}

	gen.Force = true

	if err := logic.RunGenerate(gen); err != nil {
		t.Fatalf("forced RunGenerate: %v", err)
	}

	if bytes.Equal([]byte(before), []byte(readFile(t, private))) {
		t.Error("forced RunGenerate kept the old key")
	}
}
