package export

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the encoding applied to export output.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// ParseCompression parses a compression name. The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip:
		return CompressionGzip, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, s)
	}
}

// Suffix returns the file name suffix the compression adds.
func (c Compression) Suffix() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// Output is the sink export plugins write to. The first failed write is
// latched: every later write returns the same error without touching the
// underlying writer.
type Output struct {
	w     io.Writer
	enc   io.WriteCloser
	err   error
	bytes int64
}

// NewOutput wraps w, compressing with c.
func NewOutput(w io.Writer, c Compression) (*Output, error) {
	o := &Output{w: w}
	switch c {
	case "", CompressionNone:
	case CompressionGzip:
		o.enc = gzip.NewWriter(w)
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		o.enc = enc
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, c)
	}
	if o.enc != nil {
		o.w = o.enc
	}
	return o, nil
}

// Write writes one chunk. Errors wrap ErrOutput.
func (o *Output) Write(p []byte) (int, error) {
	if o.err != nil {
		return 0, o.err
	}
	n, err := o.w.Write(p)
	o.bytes += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		o.err = fmt.Errorf("%w: %w", ErrOutput, err)
		return n, o.err
	}
	return n, nil
}

// WriteString writes one chunk of text.
func (o *Output) WriteString(s string) error {
	_, err := o.Write([]byte(s))
	return err
}

// Err returns the latched write error, if any.
func (o *Output) Err() error { return o.err }

// Bytes returns the number of uncompressed bytes accepted so far.
func (o *Output) Bytes() int64 { return o.bytes }

// Close flushes the compressor. It does not close the wrapped writer.
func (o *Output) Close() error {
	if o.enc == nil {
		return o.err
	}
	enc := o.enc
	o.enc = nil
	if err := enc.Close(); err != nil && o.err == nil {
		o.err = fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return o.err
}
