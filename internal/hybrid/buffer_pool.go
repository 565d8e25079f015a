package hybrid

import (
	"sync"
)

const readBufferSize = 32 * 1024

// readBuffers holds plaintext read buffers shared by concurrent Encrypt calls.
//
//nolint:gochecknoglobals
var readBuffers = sync.Pool{
	New: func() any {
		buf := make([]byte, readBufferSize)

		return &buf
	},
}

func getReadBuffer() *[]byte {
	buf, ok := readBuffers.Get().(*[]byte)
	if !ok {
		buf = new([]byte)
		*buf = make([]byte, readBufferSize)
	}

	return buf
}

func putReadBuffer(buf *[]byte) {
	readBuffers.Put(buf)
}
