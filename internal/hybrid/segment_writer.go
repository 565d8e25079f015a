package hybrid

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/tink"
)

const (
	// segmentSize is the plaintext size of every segment except the last.
	segmentSize = 64 * 1024
	// sivSize is the synthetic IV AES-SIV prepends to each segment.
	sivSize = 16
	// maxSealedSize bounds a sealed segment read from the wire.
	maxSealedSize = segmentSize + sivSize
	// finalFlag marks the last segment in a frame word.
	finalFlag = uint32(1) << 31
)

// segmentWriter buffers plaintext and seals it in fixed-size segments.
// Close seals whatever remains, possibly nothing, as the final segment.
type segmentWriter struct {
	w      io.Writer
	daead  tink.DeterministicAEAD
	buffer []byte
	header []byte
	index  uint64
}

func newSegmentWriter(w io.Writer, daead tink.DeterministicAEAD, header []byte) *segmentWriter {
	return &segmentWriter{
		w:      w,
		daead:  daead,
		buffer: make([]byte, 0, segmentSize),
		header: append([]byte(nil), header...),
	}
}

// Write implements io.Writer.
// A full segment is only sealed once more data arrives, so the last one is always left for Close.
func (sw *segmentWriter) Write(data []byte) (int, error) {
	sw.buffer = append(sw.buffer, data...)

	for len(sw.buffer) > segmentSize {
		if err := sw.seal(segmentSize, false); err != nil {
			return 0, err
		}
	}

	return len(data), nil
}

// Close implements io.Closer.
func (sw *segmentWriter) Close() error {
	return sw.seal(len(sw.buffer), true)
}

func (sw *segmentWriter) seal(size int, final bool) error {
	sealed, err := sw.daead.EncryptDeterministically(sw.buffer[:size], segmentAD(sw.header, sw.index, final))
	if err != nil {
		return fmt.Errorf("sealing segment %d: %w", sw.index, err)
	}

	frame := uint32(len(sealed)) //nolint:gosec // bounded by maxSealedSize
	if final {
		frame |= finalFlag
	}

	if err := binary.Write(sw.w, binary.BigEndian, frame); err != nil {
		return fmt.Errorf("writing segment frame: %w", err)
	}

	if _, err := sw.w.Write(sealed); err != nil {
		return fmt.Errorf("writing segment: %w", err)
	}

	sw.buffer = append(sw.buffer[:0], sw.buffer[size:]...)
	sw.index++

	return nil
}

// segmentAD binds a segment to its envelope, position and finality.
func segmentAD(header []byte, index uint64, final bool) []byte {
	const indexSize = 8

	ad := make([]byte, len(header)+indexSize+1)
	copy(ad, header)
	binary.BigEndian.PutUint64(ad[len(header):], index)

	if final {
		ad[len(ad)-1] = 1
	}

	return ad
}
