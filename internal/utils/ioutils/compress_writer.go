package ioutils

import (
	"compress/flate"
	"errors"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var UnsupportedEncodingError = errors.New("unsupported encoding")

// preference order for responses generated by the proxy itself.
// Proxied git payloads never go through here, they are forwarded as-is.
var supportedEncodings = []string{"zstd", "br", "gzip", "deflate"}

// NegotiateEncoding picks a content encoding from an Accept-Encoding header
// value. Returns "" when nothing usable is offered (identity response).
func NegotiateEncoding(acceptEncoding string) string {
	offered := make(map[string]bool)
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, _, _ := strings.Cut(part, ";") // discard the q-value
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			offered[name] = true
		}
	}
	for _, encoding := range supportedEncodings {
		if offered[encoding] {
			return encoding
		}
	}
	return ""
}

func NewCompressWriter(writer io.Writer, encoding string) (io.WriteCloser, error) {
	switch encoding {
	case "", "identity":
		return nopWriteCloser{writer}, nil
	case "gzip":
		return gzip.NewWriter(writer), nil
	case "deflate":
		return flate.NewWriter(writer, flate.DefaultCompression)
	case "br":
		return brotli.NewWriter(writer), nil
	case "zstd":
		return zstd.NewWriter(writer)
	default:
		return nil, UnsupportedEncodingError
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (w nopWriteCloser) Close() error {
	return nil
}
