package bitio_test

import (
	"math/rand"
	"testing"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/utilities/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bitField struct {
	Value uint32
	Width uint
}

func TestWriteBits__LSBFirst(t *testing.T) {
	tests := []struct {
		Name     string
		Fields   []bitField
		Expected []byte
	}{
		{"empty", nil, []byte{}},
		{"single bit", []bitField{{1, 1}}, []byte{0x01}},
		{"nibbles", []bitField{{0x3, 4}, {0xa, 4}}, []byte{0xa3}},
		{"straddles byte", []bitField{{0x5, 3}, {0x1ff, 9}}, []byte{0xfd, 0x0f}},
		{"high bits ignored", []bitField{{0xff, 4}}, []byte{0x0f}},
		{
			"run header",
			// type 3, flag 0, run-1 = 1
			[]bitField{{3, 4}, {0, 1}, {1, 3}, {0x1ff, 9}},
			[]byte{0x23, 0xff, 0x01},
		},
		{"32 bits", []bitField{{0xdeadbeef, 32}}, []byte{0xef, 0xbe, 0xad, 0xde}},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				writer := bitio.NewWriter(0)
				for _, field := range test.Fields {
					writer.WriteBits(field.Value, field.Width)
				}
				writer.Flush()
				assert.Equal(t, test.Expected, writer.Bytes())
			},
		)
	}
}

func TestWriter__FlushOnlyWhenPartial(t *testing.T) {
	writer := bitio.NewWriter(4)
	writer.WriteBits(0xab, 8)
	assert.Equal(t, 8, writer.BitsWritten())
	writer.Flush()
	assert.Equal(t, []byte{0xab}, writer.Bytes(), "flush on a boundary added a byte")

	writer.WriteBits(1, 1)
	assert.Equal(t, []byte{0xab}, writer.Bytes(), "pending bit emitted early")
	writer.Flush()
	assert.Equal(t, []byte{0xab, 0x01}, writer.Bytes())
}

func TestReadBits__RoundTripRandomFields(t *testing.T) {
	rng := rand.New(rand.NewSource(8675309))
	widths := []uint{1, 3, 4, 5, 9}

	fields := make([]bitField, 2000)
	writer := bitio.NewWriter(0)
	for i := range fields {
		width := widths[rng.Intn(len(widths))]
		value := rng.Uint32() & (1<<width - 1)
		fields[i] = bitField{value, width}
		writer.WriteBits(value, width)
	}
	writer.Flush()

	reader := bitio.NewReader(writer.Bytes(), 0)
	for i, field := range fields {
		value, err := reader.ReadBits(field.Width)
		require.NoErrorf(t, err, "field %d failed", i)
		require.EqualValuesf(t, field.Value, value, "field %d is wrong", i)
	}
	assert.Equal(t, len(writer.Bytes()), reader.Offset())
}

func TestReader__StartsAtOffset(t *testing.T) {
	reader := bitio.NewReader([]byte{0xff, 0xff, 0x2c}, 2)

	value, err := reader.ReadBits(4)
	require.NoError(t, err)
	assert.EqualValues(t, 0xc, value)
	assert.Equal(t, 3, reader.Offset())
}

func TestReader__PullsBytesLazily(t *testing.T) {
	reader := bitio.NewReader([]byte{0x01, 0x02, 0x03}, 0)

	_, err := reader.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.Offset(), "read more bytes than needed")

	_, err = reader.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.Offset(), "pulled a byte with bits still buffered")

	_, err = reader.ReadBits(1)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.Offset())

	reader.Align()
	value, err := reader.ReadBits(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0x03, value, "align didn't discard the partial byte")
}

func TestReader__Truncated(t *testing.T) {
	reader := bitio.NewReader([]byte{0xff}, 0)

	_, err := reader.ReadBits(5)
	require.NoError(t, err)

	_, err = reader.ReadBits(4)
	assert.ErrorIs(t, err, worldpack.ErrTruncatedStream)
}

func TestReader__EmptyInput(t *testing.T) {
	reader := bitio.NewReader(nil, 0)
	_, err := reader.ReadBit()
	assert.ErrorIs(t, err, worldpack.ErrTruncatedStream)
}

func TestReader__FieldTooWide(t *testing.T) {
	reader := bitio.NewReader(make([]byte, 8), 0)
	_, err := reader.ReadBits(33)
	assert.ErrorIs(t, err, worldpack.ErrInvalidArgument)
}
