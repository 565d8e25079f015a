package compress_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/idelchi/numcrypt/internal/compress"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := map[string][]byte{
		"empty":      {},
		"single":     {0x00},
		"text":       []byte("This is a very-very-very secret message."),
		"repetitive": bytes.Repeat([]byte("abcdefgh"), 4096),
		"binary":     {0x00, 0xFF, 0x80, 0x7F, 0x00},
	}

	for _, level := range []int{0, 1, 9, -2} {
		z := compress.Zlib{Level: level}

		for name, input := range inputs {
			packed, err := z.Compress(input)
			if err != nil {
				t.Fatalf("level %d, %s: Compress: %v", level, name, err)
			}

			got, err := z.Decompress(packed)
			if err != nil {
				t.Fatalf("level %d, %s: Decompress: %v", level, name, err)
			}

			if !bytes.Equal(got, input) {
				t.Errorf("level %d, %s: round trip mismatch", level, name)
			}
		}
	}
}

func TestInvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := (compress.Zlib{Level: 42}).Compress([]byte("x")); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestDecompressCorrupt(t *testing.T) {
	t.Parallel()

	var z compress.Zlib

	packed, err := z.Compress([]byte("Hello world, hello world, hello world"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	flipped := bytes.Clone(packed)
	flipped[len(flipped)-1] ^= 0xFF

	cases := map[string][]byte{
		"empty":     {},
		"garbage":   []byte("definitely not zlib"),
		"truncated": packed[:len(packed)-3],
		"checksum":  flipped,
		"trailing":  append(bytes.Clone(packed), 0x00),
	}

	for name, input := range cases {
		if _, err := z.Decompress(input); !errors.Is(err, compress.ErrCorruptPayload) {
			t.Errorf("%s: error = %v, want ErrCorruptPayload", name, err)
		}
	}
}
