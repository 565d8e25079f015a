package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/idelchi/numcrypt/internal/compress"
	"github.com/idelchi/numcrypt/internal/fec"
	"github.com/idelchi/numcrypt/internal/numtext"
)

// Encrypter seals a payload read from r into w.
type Encrypter interface {
	Encrypt(w io.Writer, r io.Reader) error
}

// Decrypter opens a sealed payload read from r into w.
type Decrypter interface {
	Decrypt(w io.Writer, r io.Reader) error
}

// Compressor is a lossless compressor whose methods are exact inverses.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// BlockCoder protects fec.DataSize-byte chunks as fec.BlockSize-byte codewords.
type BlockCoder interface {
	Encode(chunk []byte) ([]byte, error)
	Decode(codeword []byte) ([]byte, error)
}

// lengthPrefixSize is the size of the blob length written before chunking.
const lengthPrefixSize = 4

// ErrInvalidText is returned by EncodeText for input that is not valid UTF-8.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// Codec composes encryption, compression, error correction and numeric text.
// A Codec holds no per-message state and is safe for concurrent use.
type Codec struct {
	compressor Compressor
	coder      BlockCoder
	width      int
	parallel   int
}

// Option configures a Codec.
type Option func(*Codec)

// WithCompressor replaces the default zlib compressor.
func WithCompressor(compressor Compressor) Option {
	return func(c *Codec) {
		c.compressor = compressor
	}
}

// WithBlockCoder replaces the default Reed-Solomon coder.
func WithBlockCoder(coder BlockCoder) Option {
	return func(c *Codec) {
		c.coder = coder
	}
}

// WithWidth sets the number of digit groups per output line.
func WithWidth(width int) Option {
	return func(c *Codec) {
		c.width = width
	}
}

// WithParallel bounds the number of blocks coded concurrently.
func WithParallel(n int) Option {
	return func(c *Codec) {
		c.parallel = n
	}
}

// New returns a Codec with zlib compression, the (255,127) Reed-Solomon coder
// and DefaultWidth groups per line, unless overridden by opts.
func New(opts ...Option) (*Codec, error) {
	codec := &Codec{
		compressor: compress.Zlib{},
		width:      numtext.DefaultWidth,
		parallel:   runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(codec)
	}

	if codec.coder == nil {
		coder, err := fec.NewCoder()
		if err != nil {
			return nil, err
		}

		codec.coder = coder
	}

	if codec.compressor == nil {
		return nil, errors.New("compressor must not be nil")
	}

	codec.parallel = max(1, codec.parallel)

	return codec, nil
}

// Encode returns the numeric text form of plaintext sealed by enc.
func (c *Codec) Encode(plaintext []byte, enc Encrypter) (string, error) {
	var sb strings.Builder

	if err := c.EncodeTo(&sb, bytes.NewReader(plaintext), enc); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// EncodeText encodes text as its NFC-normalized UTF-8 bytes.
func (c *Codec) EncodeText(text string, enc Encrypter) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}

	return c.Encode([]byte(norm.NFC.String(text)), enc)
}

// EncodeTo reads a payload from reader and writes its numeric text form to writer.
func (c *Codec) EncodeTo(writer io.Writer, reader io.Reader, enc Encrypter) error {
	if enc == nil {
		return stageError(StageEncrypt, errors.New("no encrypter configured"))
	}

	var ciphertext bytes.Buffer
	if err := enc.Encrypt(&ciphertext, reader); err != nil {
		return stageError(StageEncrypt, err)
	}

	blob, err := c.compressor.Compress(ciphertext.Bytes())
	if err != nil {
		return stageError(StageCompress, err)
	}

	if uint64(len(blob)) > math.MaxUint32-lengthPrefixSize {
		return stageError(StageCompress, fmt.Errorf("compressed payload of %d bytes is too large", len(blob)))
	}

	framed := make([]byte, lengthPrefixSize+len(blob))
	binary.BigEndian.PutUint32(framed, uint32(len(blob))) //nolint:gosec // checked above
	copy(framed[lengthPrefixSize:], blob)

	codewords, err := c.mapBlocks(split(framed, fec.DataSize), c.coder.Encode)
	if err != nil {
		return stageError(StageProtect, err)
	}

	textWriter := numtext.NewWriter(writer, c.width)

	for _, codeword := range codewords {
		if _, err := textWriter.Write(codeword); err != nil {
			return fmt.Errorf("writing numeric text: %w", err)
		}
	}

	if err := textWriter.Close(); err != nil {
		return fmt.Errorf("writing numeric text: %w", err)
	}

	return nil
}

// Decode recovers the payload from numeric text produced by Encode.
func (c *Codec) Decode(text string, dec Decrypter) ([]byte, error) {
	return c.DecodeFrom(strings.NewReader(text), dec)
}

// DecodeFrom recovers the payload from numeric text read from reader.
func (c *Codec) DecodeFrom(reader io.Reader, dec Decrypter) ([]byte, error) {
	if dec == nil {
		return nil, stageError(StageDecrypt, errors.New("no decrypter configured"))
	}

	symbols, err := numtext.DecodeFrom(reader)
	if err != nil {
		return nil, stageError(StageNumericText, err)
	}

	if len(symbols) == 0 || len(symbols)%fec.BlockSize != 0 {
		return nil, stageError(StageFraming, fmt.Errorf(
			"%w: %d symbols is not a whole number of %d-symbol blocks",
			compress.ErrCorruptPayload, len(symbols), fec.BlockSize,
		))
	}

	chunks, err := c.mapBlocks(split(symbols, fec.BlockSize), c.coder.Decode)
	if err != nil {
		return nil, stageError(StageCorrect, err)
	}

	blob, err := unframe(bytes.Join(chunks, nil))
	if err != nil {
		return nil, stageError(StageFraming, err)
	}

	ciphertext, err := c.compressor.Decompress(blob)
	if err != nil {
		return nil, stageError(StageDecompress, err)
	}

	var plaintext bytes.Buffer
	if err := dec.Decrypt(&plaintext, bytes.NewReader(ciphertext)); err != nil {
		return nil, stageError(StageDecrypt, err)
	}

	return plaintext.Bytes(), nil
}

// mapBlocks applies fn to every block concurrently and returns the results in input order.
func (c *Codec) mapBlocks(blocks [][]byte, fn func([]byte) ([]byte, error)) ([][]byte, error) {
	results := make([][]byte, len(blocks))

	group := errgroup.Group{}
	group.SetLimit(c.parallel)

	for idx, block := range blocks {
		group.Go(func() error {
			out, err := fn(block)
			if err != nil {
				return fmt.Errorf("block %d: %w", idx, err)
			}

			results[idx] = out

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped with the block index
	}

	return results, nil
}

// unframe strips the length prefix and the zero padding of the final chunk.
func unframe(data []byte) ([]byte, error) {
	if len(data) < lengthPrefixSize {
		return nil, fmt.Errorf("%w: missing length prefix", compress.ErrCorruptPayload)
	}

	size := uint64(binary.BigEndian.Uint32(data))
	available := uint64(len(data) - lengthPrefixSize)

	if size > available {
		return nil, fmt.Errorf("%w: length prefix exceeds recovered data", compress.ErrCorruptPayload)
	}

	if available-size >= fec.DataSize {
		return nil, fmt.Errorf("%w: recovered data has surplus blocks", compress.ErrCorruptPayload)
	}

	end := lengthPrefixSize + int(size) //nolint:gosec // bounded by len(data)

	for _, b := range data[end:] {
		if b != 0 {
			return nil, fmt.Errorf("%w: non-zero padding", compress.ErrCorruptPayload)
		}
	}

	return data[lengthPrefixSize:end], nil
}

// split cuts data into consecutive pieces of at most size bytes.
func split(data []byte, size int) [][]byte {
	pieces := make([][]byte, 0, (len(data)+size-1)/size)

	for start := 0; start < len(data); start += size {
		pieces = append(pieces, data[start:min(start+size, len(data))])
	}

	return pieces
}
