package utils

import (
	"bytes"
	"io"
)

// BufferedReadCloser mirrors the bytes it reads into a side buffer, so the
// stream can be replayed after the first consumer is done with it. Request
// bodies in net/http are single-read; handing one to an upstream call that
// may need to re-send it (redirect hop) without buffering first is exactly
// the "body already consumed" failure mode this type exists to prevent.
// Replay is only possible while the body fits in maxBufferSize.
type BufferedReadCloser struct {
	reader        io.ReadCloser
	maxBufferSize int
	buffer        *bytes.Buffer
	fullyConsumed bool
}

func NewBufferedReadCloser(reader io.ReadCloser, maxBufferSize int) *BufferedReadCloser {
	return &BufferedReadCloser{
		reader:        reader,
		maxBufferSize: maxBufferSize,
		buffer:        bytes.NewBuffer([]byte{}),
		fullyConsumed: true,
	}
}

func (b *BufferedReadCloser) Read(buf []byte) (n int, err error) {
	n, err = b.reader.Read(buf)
	if n > 0 && b.fullyConsumed {
		if b.buffer.Len()+n <= b.maxBufferSize {
			b.buffer.Write(buf[:n])
		} else {
			b.fullyConsumed = false
			b.buffer = nil // useless now
		}
	}

	return n, err
}

func (b *BufferedReadCloser) Close() error {
	return b.reader.Close()
}

// GetNextReadCloser returns a replay of everything read so far. The second
// value is false when the body outgrew the buffer and cannot be replayed.
func (b *BufferedReadCloser) GetNextReadCloser() (io.ReadCloser, bool) {
	if b.fullyConsumed {
		return io.NopCloser(bytes.NewReader(b.buffer.Bytes())), true
	} else {
		return io.NopCloser(bytes.NewReader([]byte(""))), false
	}
}
