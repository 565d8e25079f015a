package hybrid

import (
	"bufio"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/numcrypt/internal/envelope"
	"github.com/idelchi/numcrypt/internal/keys"
)

// seedSize is the size of the secret wrapped for the recipient.
const seedSize = 32

// Encrypter seals payloads for the holder of a private key.
type Encrypter struct {
	pub *rsa.PublicKey
}

// NewEncrypter returns an Encrypter for pub.
func NewEncrypter(pub *rsa.PublicKey) (*Encrypter, error) {
	if err := keys.CheckPublic(pub); err != nil {
		return nil, err
	}

	return &Encrypter{pub: pub}, nil
}

// Encrypt reads the payload from reader and writes the sealed stream to writer.
func (e *Encrypter) Encrypt(writer io.Writer, reader io.Reader) error {
	header := envelope.NewHeader(envelope.ModeHybrid)

	seed := make([]byte, seedSize)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return fmt.Errorf("generating session seed: %w", err)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, e.pub, seed, header)
	if err != nil {
		return fmt.Errorf("wrapping session seed: %w", err)
	}

	primitive, err := sessionAEAD(seed)
	if err != nil {
		return err
	}

	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := binary.Write(writer, binary.BigEndian, uint16(len(wrapped))); err != nil { //nolint:gosec // modulus size
		return fmt.Errorf("writing key block size: %w", err)
	}

	if _, err := writer.Write(wrapped); err != nil {
		return fmt.Errorf("writing key block: %w", err)
	}

	segments := newSegmentWriter(writer, primitive, header)

	bufp := getReadBuffer()
	defer putReadBuffer(bufp)

	buf := *bufp

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if _, err := segments.Write(buf[:n]); err != nil {
				return fmt.Errorf("writing to stream: %w", err)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}

	return segments.Close()
}

// Decrypter opens streams sealed for a private key.
type Decrypter struct {
	priv *rsa.PrivateKey
}

// NewDecrypter returns a Decrypter for priv.
func NewDecrypter(priv *rsa.PrivateKey) (*Decrypter, error) {
	if err := keys.CheckPrivate(priv); err != nil {
		return nil, err
	}

	return &Decrypter{priv: priv}, nil
}

// Decrypt reads a sealed stream from reader and writes the payload to writer.
// Segments are written as they authenticate; callers that must not observe a
// partial payload should buffer the output until Decrypt returns nil.
func (d *Decrypter) Decrypt(writer io.Writer, reader io.Reader) error {
	bufReader := bufio.NewReader(reader)

	header, err := envelope.ReadHeader(bufReader, envelope.ModeHybrid)
	if err != nil {
		return err
	}

	var wrappedSize uint16
	if err := binary.Read(bufReader, binary.BigEndian, &wrappedSize); err != nil {
		return fmt.Errorf("%w: reading key block size: %w", envelope.ErrDecryption, err)
	}

	if int(wrappedSize) != d.priv.Size() {
		return fmt.Errorf("%w: key block does not match the private key", envelope.ErrDecryption)
	}

	wrapped := make([]byte, wrappedSize)
	if _, err := io.ReadFull(bufReader, wrapped); err != nil {
		return fmt.Errorf("%w: reading key block: %w", envelope.ErrDecryption, err)
	}

	seed, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, d.priv, wrapped, header)
	if err != nil || len(seed) != seedSize {
		return fmt.Errorf("%w: unwrapping session seed", envelope.ErrDecryption)
	}

	primitive, err := sessionAEAD(seed)
	if err != nil {
		return err
	}

	for index := uint64(0); ; index++ {
		var frame uint32
		if err := binary.Read(bufReader, binary.BigEndian, &frame); err != nil {
			return fmt.Errorf("%w: stream ends before the final segment", envelope.ErrDecryption)
		}

		final := frame&finalFlag != 0
		size := frame &^ finalFlag

		if size < sivSize || size > maxSealedSize {
			return fmt.Errorf("%w: segment %d has invalid size %d", envelope.ErrDecryption, index, size)
		}

		sealed := make([]byte, size)
		if _, err := io.ReadFull(bufReader, sealed); err != nil {
			return fmt.Errorf("%w: reading segment %d: %w", envelope.ErrDecryption, index, err)
		}

		plain, err := primitive.DecryptDeterministically(sealed, segmentAD(header, index, final))
		if err != nil {
			return fmt.Errorf("%w: segment %d failed authentication", envelope.ErrDecryption, index)
		}

		if _, err := writer.Write(plain); err != nil {
			return fmt.Errorf("writing plaintext: %w", err)
		}

		if final {
			break
		}
	}

	if _, err := bufReader.ReadByte(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: data after the final segment", envelope.ErrDecryption)
	}

	return nil
}
