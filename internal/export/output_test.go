package export

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    Compression
		suffix  string
		wantErr bool
	}{
		{"", CompressionNone, "", false},
		{"none", CompressionNone, "", false},
		{"gzip", CompressionGzip, ".gz", false},
		{"zstd", CompressionZstd, ".zst", false},
		{"bzip2", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompression(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.suffix, got.Suffix())
		})
	}
}

func TestOutputRoundTrip(t *testing.T) {
	const doc = "%YAML 1.1\n---\n...\n"
	decoders := map[Compression]func(io.Reader) (io.Reader, error){
		CompressionNone: func(r io.Reader) (io.Reader, error) { return r, nil },
		CompressionGzip: func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		CompressionZstd: func(r io.Reader) (io.Reader, error) { return zstd.NewReader(r) },
	}
	for c, decode := range decoders {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			out, err := NewOutput(&buf, c)
			require.NoError(t, err)
			require.NoError(t, out.WriteString(doc[:14]))
			require.NoError(t, out.WriteString(doc[14:]))
			require.NoError(t, out.Close())
			assert.Equal(t, int64(len(doc)), out.Bytes())

			r, err := decode(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, doc, string(got))
		})
	}
}

func TestOutputLatchesFirstError(t *testing.T) {
	w := &failWriter{ok: 1}
	out, err := NewOutput(w, CompressionNone)
	require.NoError(t, err)

	require.NoError(t, out.WriteString("one"))
	err = out.WriteString("two")
	assert.ErrorIs(t, err, ErrOutput)
	assert.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, err, out.WriteString("three"))
	assert.Equal(t, err, out.Err())
	assert.Equal(t, []string{"one"}, w.writes)
	assert.Equal(t, err, out.Close())
}

func TestNewOutputRejectsUnknownCompression(t *testing.T) {
	_, err := NewOutput(io.Discard, "lz4")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
