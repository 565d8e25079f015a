package fec_test

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/idelchi/numcrypt/internal/fec"
)

func newCoder(t *testing.T) *fec.Coder {
	t.Helper()

	coder, err := fec.NewCoder()
	if err != nil {
		t.Fatalf("NewCoder: %v", err)
	}

	return coder
}

func randomBytes(rng *rand.Rand, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rng.UintN(256))
	}

	return data
}

// corrupt flips n distinct symbols of a copy of codeword.
func corrupt(rng *rand.Rand, codeword []byte, n int) []byte {
	out := bytes.Clone(codeword)

	for _, pos := range rng.Perm(len(out))[:n] {
		out[pos] ^= byte(1 + rng.UintN(255))
	}

	return out
}

func padded(chunk []byte) []byte {
	out := make([]byte, fec.DataSize)
	copy(out, chunk)

	return out
}

func TestEncodeLength(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)
	rng := rand.New(rand.NewPCG(1, 1))

	for _, size := range []int{0, 1, 11, 126, fec.DataSize} {
		codeword, err := coder.Encode(randomBytes(rng, size))
		if err != nil {
			t.Fatalf("Encode(%d bytes): %v", size, err)
		}

		if len(codeword) != fec.BlockSize {
			t.Errorf("Encode(%d bytes) produced %d bytes, want %d", size, len(codeword), fec.BlockSize)
		}
	}
}

func TestEncodeIsSystematic(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)
	chunk := []byte("Hello world")

	codeword, err := coder.Encode(chunk)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if !bytes.Equal(codeword[:fec.DataSize], padded(chunk)) {
		t.Error("data region of codeword does not carry the chunk")
	}
}

func TestEncodeRejectsLargeChunk(t *testing.T) {
	t.Parallel()

	_, err := newCoder(t).Encode(make([]byte, fec.DataSize+1))
	if !errors.Is(err, fec.ErrChunkTooLarge) {
		t.Fatalf("error = %v, want ErrChunkTooLarge", err)
	}
}

func TestDecodeClean(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)
	rng := rand.New(rand.NewPCG(2, 2))

	for _, size := range []int{0, 1, 64, fec.DataSize} {
		chunk := randomBytes(rng, size)

		codeword, err := coder.Encode(chunk)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}

		got, err := coder.Decode(codeword)
		if err != nil {
			t.Fatalf("Decode(%d bytes): %v", size, err)
		}

		if !bytes.Equal(got, padded(chunk)) {
			t.Errorf("Decode(%d bytes) mismatch", size)
		}

		if size == fec.DataSize && !bytes.Equal(got, chunk) {
			t.Errorf("full chunk did not round trip exactly")
		}
	}
}

func TestDecodeCorrectsErrors(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)
	rng := rand.New(rand.NewPCG(3, 3))

	for _, errorsCount := range []int{1, 10, 32, 63, fec.MaxErrors} {
		chunk := randomBytes(rng, fec.DataSize)

		codeword, err := coder.Encode(chunk)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}

		damaged := corrupt(rng, codeword, errorsCount)
		snapshot := bytes.Clone(damaged)

		got, err := coder.Decode(damaged)
		if err != nil {
			t.Fatalf("%d errors: Decode: %v", errorsCount, err)
		}

		if !bytes.Equal(got, chunk) {
			t.Errorf("%d errors: recovered data differs", errorsCount)
		}

		if !bytes.Equal(damaged, snapshot) {
			t.Errorf("%d errors: Decode modified its input", errorsCount)
		}
	}
}

func TestDecodeParityOnlyErrors(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)
	chunk := []byte{0x00, 0xFF, 0x00, 0xFF}

	codeword, err := coder.Encode(chunk)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for pos := fec.DataSize; pos < fec.DataSize+fec.MaxErrors; pos++ {
		codeword[pos] ^= 0x5A
	}

	got, err := coder.Decode(codeword)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(got, padded(chunk)) {
		t.Error("recovered data differs")
	}
}

func TestDecodeUncorrectable(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)
	rng := rand.New(rand.NewPCG(4, 4))

	for _, errorsCount := range []int{fec.MaxErrors + 36, 128, fec.BlockSize} {
		chunk := randomBytes(rng, fec.DataSize)

		codeword, err := coder.Encode(chunk)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}

		got, err := coder.Decode(corrupt(rng, codeword, errorsCount))
		if !errors.Is(err, fec.ErrUncorrectable) {
			t.Fatalf("%d errors: error = %v, want ErrUncorrectable", errorsCount, err)
		}

		if got != nil {
			t.Errorf("%d errors: Decode returned data alongside an error", errorsCount)
		}
	}
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	t.Parallel()

	coder := newCoder(t)

	for _, size := range []int{0, fec.DataSize, fec.BlockSize - 1, fec.BlockSize + 1} {
		if _, err := coder.Decode(make([]byte, size)); !errors.Is(err, fec.ErrBlockSize) {
			t.Errorf("Decode(%d bytes) error = %v, want ErrBlockSize", size, err)
		}
	}
}
