package bodydecoder

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecodedSize caps decoded bodies so a compression bomb cannot exhaust memory.
const DefaultMaxDecodedSize int64 = 50 * 1024 * 1024

// Decode reverses the Content-Encoding chain of a response body.
// Encodings are applied in listed order, so they are undone right to left.
// Unknown encodings are returned unchanged.
func Decode(contentEncoding string, body []byte, maxSize int64) ([]byte, error) {
	if len(body) == 0 || strings.TrimSpace(contentEncoding) == "" {
		return body, nil
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxDecodedSize
	}

	encodings := strings.Split(contentEncoding, ",")
	decoded := body
	for i := len(encodings) - 1; i >= 0; i-- {
		encoding := strings.ToLower(strings.TrimSpace(encodings[i]))
		next, err := decodeOne(encoding, decoded, maxSize)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s body: %w", encoding, err)
		}
		decoded = next
	}
	return decoded, nil
}

func decodeOne(encoding string, body []byte, maxSize int64) ([]byte, error) {
	switch encoding {
	case "gzip", "x-gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return readLimited(reader, maxSize)
	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()
		return readLimited(reader, maxSize)
	case "br":
		return readLimited(brotli.NewReader(bytes.NewReader(body)), maxSize)
	case "zstd":
		reader, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return readLimited(reader, maxSize)
	default:
		return body, nil
	}
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	decoded, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(decoded)) > maxSize {
		return nil, fmt.Errorf("decoded body exceeds %d bytes", maxSize)
	}
	return decoded, nil
}
