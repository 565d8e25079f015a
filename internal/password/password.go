// Package password encrypts payloads under a shared password when no key pair
// is available.
//
// Every message draws a fresh salt and IV, so two messages under the same
// password never share a keystream. The payload is encrypted with AES-256 in
// counter mode and authenticated with HMAC-SHA256:
//
//	header | salt (16) | uint32 iterations | IV (16) | ciphertext | tag (32)
//
// The tag covers every byte before it.
package password

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/idelchi/numcrypt/internal/envelope"
)

const (
	// DefaultIterations is the PBKDF2 work factor for new messages.
	DefaultIterations = 600_000
	// MaxIterations bounds the work factor accepted from a ciphertext.
	MaxIterations = 10_000_000

	saltSize       = 16
	masterKeySize  = 32
	encKeySize     = 32
	macKeySize     = 32
	tagSize        = sha256.Size
	bufferSize     = 4096
	derivationInfo = "numcrypt/password"
)

// ErrEmptyPassword is returned when constructing a Cipher without a password.
var ErrEmptyPassword = errors.New("password must not be empty")

// Cipher encrypts and decrypts with a password.
type Cipher struct {
	password   []byte
	iterations int
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithIterations sets the PBKDF2 work factor used by Encrypt.
func WithIterations(n int) Option {
	return func(c *Cipher) {
		c.iterations = n
	}
}

// New returns a Cipher for password.
func New(password string, opts ...Option) (*Cipher, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	c := &Cipher{
		password:   []byte(password),
		iterations: DefaultIterations,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.iterations < 1 || c.iterations > MaxIterations {
		return nil, fmt.Errorf("iterations must be between 1 and %d, got %d", MaxIterations, c.iterations)
	}

	return c, nil
}

// Encrypt reads the payload from reader and writes the sealed stream to writer.
func (c *Cipher) Encrypt(writer io.Writer, reader io.Reader) error {
	header := envelope.NewHeader(envelope.ModePassword)

	params := make([]byte, saltSize+4+aes.BlockSize)

	salt := params[:saltSize]
	iv := params[saltSize+4:]

	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	binary.BigEndian.PutUint32(params[saltSize:], uint32(c.iterations)) //nolint:gosec // bounded in New

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return fmt.Errorf("generating IV: %w", err)
	}

	stream, mac, err := c.keys(salt, c.iterations, iv)
	if err != nil {
		return err
	}

	mac.Write(header)
	mac.Write(params)

	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if _, err := writer.Write(params); err != nil {
		return fmt.Errorf("writing parameters: %w", err)
	}

	buf := make([]byte, bufferSize)
	encrypted := make([]byte, bufferSize)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			stream.XORKeyStream(encrypted[:n], buf[:n])
			mac.Write(encrypted[:n])

			if _, err := writer.Write(encrypted[:n]); err != nil {
				return fmt.Errorf("writing ciphertext: %w", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return fmt.Errorf("reading plaintext: %w", readErr)
		}
	}

	if _, err := writer.Write(mac.Sum(nil)); err != nil {
		return fmt.Errorf("writing authentication tag: %w", err)
	}

	return nil
}

// Decrypt reads a sealed stream from reader and writes the payload to writer.
// Plaintext is written before the tag is checked; callers that must not
// observe unauthenticated data should buffer the output until Decrypt returns nil.
//
//nolint:gocognit
func (c *Cipher) Decrypt(writer io.Writer, reader io.Reader) error {
	header, err := envelope.ReadHeader(reader, envelope.ModePassword)
	if err != nil {
		return err
	}

	params := make([]byte, saltSize+4+aes.BlockSize)
	if _, err := io.ReadFull(reader, params); err != nil {
		return fmt.Errorf("%w: reading parameters: %w", envelope.ErrDecryption, err)
	}

	iterations := binary.BigEndian.Uint32(params[saltSize:])
	if iterations < 1 || iterations > MaxIterations {
		return fmt.Errorf("%w: unsupported work factor", envelope.ErrDecryption)
	}

	stream, mac, err := c.keys(params[:saltSize], int(iterations), params[saltSize+4:])
	if err != nil {
		return err
	}

	mac.Write(header)
	mac.Write(params)

	buf := make([]byte, bufferSize)
	plain := make([]byte, bufferSize)
	tagBuffer := make([]byte, 0, tagSize)

	for {
		n, readErr := reader.Read(buf)
		if n > 0 { //nolint:nestif
			combined := append(tagBuffer, buf[:n]...) //nolint:gocritic

			if len(combined) <= tagSize {
				tagBuffer = combined
			} else {
				processLen := len(combined) - tagSize
				chunk := combined[:processLen]

				mac.Write(chunk)

				if len(plain) < processLen {
					plain = make([]byte, processLen)
				}

				stream.XORKeyStream(plain[:processLen], chunk)

				tagBuffer = append(tagBuffer[:0], combined[processLen:]...)

				if _, err := writer.Write(plain[:processLen]); err != nil {
					return fmt.Errorf("writing plaintext: %w", err)
				}
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return fmt.Errorf("reading ciphertext: %w", readErr)
		}
	}

	if len(tagBuffer) != tagSize {
		return fmt.Errorf("%w: authentication tag missing", envelope.ErrDecryption)
	}

	if !hmac.Equal(mac.Sum(nil), tagBuffer) {
		return fmt.Errorf("%w: authentication failed", envelope.ErrDecryption)
	}

	return nil
}

// keys derives the keystream and MAC for one message.
func (c *Cipher) keys(salt []byte, iterations int, iv []byte) (cipher.Stream, hash.Hash, error) {
	master := pbkdf2.Key(c.password, salt, iterations, masterKeySize, sha256.New)

	derived, err := envelope.DeriveKey(master, derivationInfo, encKeySize+macKeySize)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(derived[:encKeySize])
	if err != nil {
		return nil, nil, fmt.Errorf("creating cipher: %w", err)
	}

	return cipher.NewCTR(block, iv), hmac.New(sha256.New, derived[encKeySize:]), nil
}
