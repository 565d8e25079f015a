// Package compress shrinks ciphertext before it is spread over FEC blocks.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrCorruptPayload is returned when compressed or framed data cannot be decoded.
var ErrCorruptPayload = errors.New("corrupt payload")

// Zlib compresses with the zlib format.
type Zlib struct {
	// Level is a zlib compression level; zero selects zlib.DefaultCompression.
	Level int
}

// Compress returns the zlib stream of data.
func (z Zlib) Compress(data []byte) ([]byte, error) {
	level := z.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}

	var buf bytes.Buffer

	writer, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("creating compressor: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing compressor: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream produced by Compress.
// Anything after the end of the stream is treated as corruption.
func (z Zlib) Decompress(data []byte) ([]byte, error) {
	input := bytes.NewReader(data)

	reader, err := zlib.NewReader(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}
	defer reader.Close()

	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}

	if input.Len() > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptPayload, input.Len())
	}

	return out, nil
}
