package fec

import (
	"fmt"

	"github.com/vivint/infectious"
)

const (
	// DataSize is the number of data symbols per codeword (k).
	DataSize = 127
	// BlockSize is the total number of symbols per codeword (n).
	BlockSize = 255
	// ParitySize is the number of parity symbols per codeword (n-k).
	ParitySize = BlockSize - DataSize
	// MaxErrors is the number of corrupted symbols a codeword can recover from.
	MaxErrors = ParitySize / 2
)

// Coder encodes and corrects (255,127) Reed-Solomon codewords.
// It is safe for concurrent use.
type Coder struct {
	fec *infectious.FEC
}

// NewCoder creates a Coder.
func NewCoder() (*Coder, error) {
	code, err := infectious.NewFEC(DataSize, BlockSize)
	if err != nil {
		return nil, fmt.Errorf("creating reed-solomon code: %w", err)
	}

	return &Coder{fec: code}, nil
}

// Encode returns the 255-byte codeword for chunk.
// Chunks shorter than DataSize are zero padded at the end.
func (c *Coder) Encode(chunk []byte) ([]byte, error) {
	if len(chunk) > DataSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrChunkTooLarge, len(chunk), DataSize)
	}

	data := make([]byte, DataSize)
	copy(data, chunk)

	codeword := make([]byte, BlockSize)

	// One-byte shares: share i is symbol i of the codeword.
	err := c.fec.Encode(data, func(share infectious.Share) {
		codeword[share.Number] = share.Data[0]
	})
	if err != nil {
		return nil, fmt.Errorf("encoding block: %w", err)
	}

	return codeword, nil
}

// Decode corrects up to MaxErrors corrupted symbols in codeword and returns
// its DataSize-byte data region.
// The input slice is not modified.
func (c *Coder) Decode(codeword []byte) ([]byte, error) {
	if len(codeword) != BlockSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBlockSize, len(codeword), BlockSize)
	}

	shares := make([]infectious.Share, BlockSize)
	for idx, symbol := range codeword {
		shares[idx] = infectious.Share{Number: idx, Data: []byte{symbol}}
	}

	data, err := c.fec.Decode(nil, shares)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUncorrectable, err)
	}

	if len(data) != DataSize {
		return nil, fmt.Errorf("%w: decoder returned %d bytes", ErrUncorrectable, len(data))
	}

	// The decoded word must lie within the correction radius of what was received.
	reencoded, err := c.Encode(data)
	if err != nil {
		return nil, err
	}

	if d := distance(reencoded, codeword); d > MaxErrors {
		return nil, fmt.Errorf("%w: %d symbols differ", ErrUncorrectable, d)
	}

	return data, nil
}

// distance counts the positions at which a and b differ.
func distance(a, b []byte) int {
	var count int

	for idx := range a {
		if a[idx] != b[idx] {
			count++
		}
	}

	return count
}
