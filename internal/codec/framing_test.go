package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/idelchi/numcrypt/internal/compress"
	"github.com/idelchi/numcrypt/internal/fec"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{1}, 2*fec.DataSize+5)
	pieces := split(data, fec.DataSize)

	if len(pieces) != 3 {
		t.Fatalf("got %d pieces, want 3", len(pieces))
	}

	if len(pieces[0]) != fec.DataSize || len(pieces[1]) != fec.DataSize || len(pieces[2]) != 5 {
		t.Errorf("unexpected piece sizes %d/%d/%d", len(pieces[0]), len(pieces[1]), len(pieces[2]))
	}

	if got := split(nil, fec.DataSize); len(got) != 0 {
		t.Errorf("split(nil) = %d pieces, want 0", len(got))
	}
}

func TestUnframe(t *testing.T) {
	t.Parallel()

	frame := func(size uint32, payload []byte, padding int) []byte {
		out := []byte{byte(size >> 24), byte(size >> 16), byte(size >> 8), byte(size)}
		out = append(out, payload...)

		return append(out, make([]byte, padding)...)
	}

	tests := []struct {
		name    string
		data    []byte
		want    []byte
		wantErr bool
	}{
		{name: "exact", data: frame(3, []byte("abc"), 0), want: []byte("abc")},
		{name: "padded", data: frame(3, []byte("abc"), 120), want: []byte("abc")},
		{name: "payload ends in zero", data: frame(2, []byte{7, 0}, 10), want: []byte{7, 0}},
		{name: "empty payload", data: frame(0, nil, 123), want: []byte{}},
		{name: "too short", data: []byte{0, 0}, wantErr: true},
		{name: "length too big", data: frame(50, []byte("abc"), 0), wantErr: true},
		{name: "surplus block", data: frame(3, []byte("abc"), fec.DataSize), wantErr: true},
		{name: "dirty padding", data: append(frame(3, []byte("abc"), 4), 1), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := unframe(tc.data)

			if tc.wantErr {
				if !errors.Is(err, compress.ErrCorruptPayload) {
					t.Fatalf("error = %v, want ErrCorruptPayload", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !bytes.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
