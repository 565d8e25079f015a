// Package envelope defines the header shared by every ciphertext the codec
// produces, and the error reported when a ciphertext cannot be opened.
package envelope

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	magic   = "NUMC"
	version = byte(1)
)

// HeaderSize is the length of an encoded header.
const HeaderSize = len(magic) + 2

// Mode identifies the cipher that produced a ciphertext.
type Mode byte

const (
	// ModeHybrid marks RSA-wrapped session key ciphertexts.
	ModeHybrid Mode = 0x01
	// ModePassword marks password-derived ciphertexts.
	ModePassword Mode = 0x02
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeHybrid:
		return "hybrid"
	case ModePassword:
		return "password"
	default:
		return fmt.Sprintf("mode(%d)", byte(m))
	}
}

// ErrDecryption is returned for any failure to open a ciphertext: malformed or
// truncated streams, key mismatch, wrong password, failed authentication.
var ErrDecryption = errors.New("decryption failed")

// NewHeader returns the header for mode.
func NewHeader(mode Mode) []byte {
	header := make([]byte, HeaderSize)
	copy(header, magic)

	header[len(magic)] = version
	header[len(magic)+1] = byte(mode)

	return header
}

// ReadHeader reads a header from r and checks that it announces mode.
// The raw header is returned so callers can authenticate it.
func ReadHeader(r io.Reader, mode Mode) ([]byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrDecryption, err)
	}

	if !bytes.Equal(header[:len(magic)], []byte(magic)) {
		return nil, fmt.Errorf("%w: invalid envelope magic", ErrDecryption)
	}

	if v := header[len(magic)]; v != version {
		return nil, fmt.Errorf("%w: unsupported envelope version %d", ErrDecryption, v)
	}

	if got := Mode(header[len(magic)+1]); got != mode {
		return nil, fmt.Errorf("%w: envelope is %s, expected %s", ErrDecryption, got, mode)
	}

	return header, nil
}

// DeriveKey expands secret into size bytes of key material bound to info.
func DeriveKey(secret []byte, info string, size int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, []byte(info))
	derived := make([]byte, size)

	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	return derived, nil
}
