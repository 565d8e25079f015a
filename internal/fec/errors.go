package fec

import "errors"

var (
	// ErrUncorrectable is returned when a codeword carries more corruption than the code can repair.
	ErrUncorrectable = errors.New("uncorrectable block")
	// ErrChunkTooLarge is returned when a chunk exceeds DataSize bytes.
	ErrChunkTooLarge = errors.New("chunk exceeds block data size")
	// ErrBlockSize is returned when a codeword is not exactly BlockSize bytes.
	ErrBlockSize = errors.New("codeword has wrong size")
)
