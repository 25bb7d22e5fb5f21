package codec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/codec"
	wptest "github.com/dargueta/worldpack/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles__RoundTrip(t *testing.T) {
	w, worldPath := wptest.CreateWorldFile(t)
	home := wptest.CreateHome(t, w)
	dir := t.TempDir()

	original := append(wptest.ConcatEntries(home, 0, 0, 0, 9), wptest.CreateRandomData(t, 100)...)
	inputPath := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(inputPath, original, 0644))

	opts := codec.DefaultOptions()
	opts.WorldPath = worldPath

	containerPath := filepath.Join(dir, "input.wpk")
	stats, err := codec.CompressFile(inputPath, containerPath, opts)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Chunks)
	assert.Equal(t, 6, stats.ExtrasChunks)

	outputPath := filepath.Join(dir, "output.bin")
	report, err := codec.DecompressFile(containerPath, outputPath, opts)
	require.NoError(t, err)
	assert.False(t, report.Degraded())

	restored, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, original, restored)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary files left behind")
}

func TestFiles__BadWorld(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(inputPath, []byte("hello"), 0644))

	shortWorld := filepath.Join(dir, "short.bin")
	require.NoError(t, os.WriteFile(shortWorld, make([]byte, 31), 0600))

	for _, worldPath := range []string{shortWorld, filepath.Join(dir, "missing.bin")} {
		opts := codec.DefaultOptions()
		opts.WorldPath = worldPath
		outputPath := filepath.Join(dir, "out.wpk")

		_, err := codec.CompressFile(inputPath, outputPath, opts)
		assert.ErrorIs(t, err, worldpack.ErrConfig)
		assert.NoFileExists(t, outputPath, "output written despite failure")
	}
}

func TestFiles__FailedDecodeWritesNothing(t *testing.T) {
	_, worldPath := wptest.CreateWorldFile(t)
	dir := t.TempDir()

	containerPath := filepath.Join(dir, "bad.wpk")
	require.NoError(t, os.WriteFile(containerPath, []byte{1, 2, 3}, 0644))

	opts := codec.DefaultOptions()
	opts.WorldPath = worldPath
	outputPath := filepath.Join(dir, "out.bin")

	_, err := codec.DecompressFile(containerPath, outputPath, opts)
	assert.ErrorIs(t, err, worldpack.ErrShortHeader)
	assert.NoFileExists(t, outputPath)
}

func TestNewFromOptions__UnknownAlgorithms(t *testing.T) {
	_, worldPath := wptest.CreateWorldFile(t)

	opts := codec.DefaultOptions()
	opts.WorldPath = worldPath
	opts.ExtrasCodec = "brotli"
	_, err := codec.NewFromOptions(opts)
	assert.ErrorIs(t, err, worldpack.ErrConfig)

	opts = codec.DefaultOptions()
	opts.WorldPath = worldPath
	opts.Hash = "crc32"
	_, err = codec.NewFromOptions(opts)
	assert.ErrorIs(t, err, worldpack.ErrConfig)
}
