package compression_test

import (
	"bytes"
	stdgzip "compress/gzip"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/worldpack"
	c "github.com/dargueta/worldpack/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compressorTestData struct {
	Name string
	Data []byte
}

func TestRoundTripCompressors(t *testing.T) {
	randomData := make([]byte, 18*119)
	rand.Read(randomData)

	testData := []compressorTestData{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"empty", []byte{}},
		{"heterogenous", randomData},
	}

	for _, name := range c.Names() {
		compressor, err := c.ByName(name)
		require.NoError(t, err)

		t.Run(
			name,
			func(tSub *testing.T) {
				for _, data := range testData {
					tSub.Run(
						data.Name,
						func(tSubSub *testing.T) {
							compressed, err := compressor.CompressBytes(data.Data)
							require.NoError(tSubSub, err, "error while compressing")
							tSubSub.Logf("compressed %d -> %d", len(data.Data), len(compressed))

							decompressed, err := compressor.DecompressBytes(compressed)
							require.NoError(tSubSub, err, "error while decompressing")
							assert.Equal(tSubSub, len(data.Data), len(decompressed), "decompressed length is wrong")
							assert.True(tSubSub, bytes.Equal(data.Data, decompressed), "decompressed data is wrong")
						},
					)
				}
			},
		)
	}
}

// Existing containers hold blobs written by other gzip implementations; make
// sure we read the standard library's output and it reads ours.
func TestGzip__Interoperable(t *testing.T) {
	original := bytes.Repeat([]byte("interoperable gzip payload "), 40)

	var buffer bytes.Buffer
	stdWriter := stdgzip.NewWriter(&buffer)
	_, err := stdWriter.Write(original)
	require.NoError(t, err)
	require.NoError(t, stdWriter.Close())

	gz, err := c.ByName("gzip")
	require.NoError(t, err)

	decompressed, err := gz.DecompressBytes(buffer.Bytes())
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)

	compressed, err := gz.CompressBytes(original)
	require.NoError(t, err)
	stdReader, err := stdgzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	roundTripped, err := io.ReadAll(stdReader)
	require.NoError(t, err)
	assert.Equal(t, original, roundTripped)
}

func TestDecompress__Garbage(t *testing.T) {
	for _, name := range c.Names() {
		compressor, err := c.ByName(name)
		require.NoError(t, err)

		_, err = compressor.DecompressBytes([]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4, 5})
		assert.ErrorIsf(t, err, worldpack.ErrIOFailed, "%s accepted garbage", name)
	}
}

func TestByName(t *testing.T) {
	def, err := c.ByName("")
	require.NoError(t, err)
	assert.Equal(t, c.DefaultName, def.Name())

	zstd, err := c.ByName("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, "zstd", zstd.Name())

	_, err = c.ByName("lzma")
	assert.ErrorIs(t, err, worldpack.ErrConfig)
	assert.Equal(t, []string{"gzip", "zstd"}, c.Names())
}
