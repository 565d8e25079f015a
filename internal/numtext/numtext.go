package numtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultWidth is the number of groups written per line.
const DefaultWidth = 11

// Writer streams bytes to an underlying writer in numeric text form.
// Close must be called to terminate the last line and flush.
type Writer struct {
	w     *bufio.Writer
	width int
	count int
	group [3]byte
}

// NewWriter returns a Writer wrapping after width groups.
// A width of zero or less selects DefaultWidth.
func NewWriter(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = DefaultWidth
	}

	return &Writer{
		w:     bufio.NewWriter(w),
		width: width,
	}
}

// Write implements io.Writer.
func (tw *Writer) Write(data []byte) (int, error) {
	for idx, b := range data {
		if tw.count > 0 {
			sep := byte(' ')
			if tw.count%tw.width == 0 {
				sep = '\n'
			}

			if err := tw.w.WriteByte(sep); err != nil {
				return idx, fmt.Errorf("writing separator: %w", err)
			}
		}

		tw.group[0] = '0' + b/100
		tw.group[1] = '0' + b/10%10
		tw.group[2] = '0' + b%10

		if _, err := tw.w.Write(tw.group[:]); err != nil {
			return idx, fmt.Errorf("writing group: %w", err)
		}

		tw.count++
	}

	return len(data), nil
}

// Close terminates the last line and flushes buffered output.
func (tw *Writer) Close() error {
	if tw.count > 0 {
		if err := tw.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing final newline: %w", err)
		}
	}

	if err := tw.w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	return nil
}

// Encode returns the numeric text form of data, wrapped after width groups.
func Encode(data []byte, width int) string {
	var sb strings.Builder

	sb.Grow(len(data) * 4) //nolint:mnd // three digits plus one separator per byte

	tw := NewWriter(&sb, width)

	// strings.Builder never fails.
	_, _ = tw.Write(data)
	_ = tw.Close()

	return sb.String()
}

// Decode parses numeric text back into bytes.
// Tokens are separated by any amount of whitespace; empty tokens are ignored.
func Decode(text string) ([]byte, error) {
	return DecodeFrom(strings.NewReader(text))
}

// DecodeFrom parses numeric text read from r.
func DecodeFrom(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var (
		out   []byte
		index int
	)

	for scanner.Scan() {
		index++

		value, err := strconv.ParseUint(scanner.Text(), 10, 8)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("%w: token %d is out of range", ErrInvalidEncoding, index)
			}

			return nil, fmt.Errorf("%w: token %d is not a number", ErrInvalidEncoding, index)
		}

		out = append(out, byte(value))
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: token %d is too long", ErrInvalidEncoding, index+1)
		}

		return nil, fmt.Errorf("reading numeric text: %w", err)
	}

	return out, nil
}
