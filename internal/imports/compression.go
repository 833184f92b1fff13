package imports

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// decompress wraps r with the reader for c. The caller closes the result;
// closing does not close r.
func decompress(c Compression, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		return io.NopCloser(xr), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}
