package codec_test

import (
	"strings"
	"testing"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/codec"
	wptest "github.com/dargueta/worldpack/testing"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	c := newTestCodec(t)
	data := append(
		wptest.ConcatEntries(c.Home(), repeatIndex(6, 257)...),
		wptest.CreateRandomData(t, 2*worldpack.ChunkSize)...,
	)
	container, _, err := c.Compress(data)
	require.NoError(t, err)

	parsed, records, err := codec.Inspect(container)
	require.NoError(t, err)
	assert.EqualValues(t, 259, parsed.ChunkCount)

	expected := []codec.FieldRecord{
		{Index: 0, FirstChunk: 0, Type: 6, Kind: "home[6]", Form: "extended", SmallRun: 8, Multiplier: 32, Length: 256, Bits: 13},
		{Index: 1, FirstChunk: 256, Type: 6, Kind: "home[6]", Form: "short", SmallRun: 1, Multiplier: 1, Length: 1, Bits: 8},
		{Index: 2, FirstChunk: 257, Type: 15, Kind: "extras", Form: "short", SmallRun: 2, Multiplier: 1, Length: 2, Bits: 8},
	}
	assert.Equal(t, expected, records)

	csvText, err := gocsv.MarshalString(&records)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "index,first_chunk,type,kind,form,small_run,multiplier,length,bits", lines[0])
	assert.Equal(t, "1,256,6,home[6],short,1,1,1,8", lines[2])
}
