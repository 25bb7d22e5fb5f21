package compression

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dargueta/worldpack"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compressor is a reversible byte-stream transform.
type Compressor interface {
	// CompressBytes returns the compressed form of `data`.
	CompressBytes(data []byte) ([]byte, error)
	// DecompressBytes reverses [Compressor.CompressBytes].
	DecompressBytes(data []byte) ([]byte, error)
	// Name gives the name [ByName] resolves to this compressor.
	Name() string
}

// DefaultName is the compressor used when none is configured.
const DefaultName = "gzip"

var compressorsByName = map[string]func() Compressor{
	"gzip": func() Compressor { return Gzip{Level: gzip.BestCompression} },
	"zstd": func() Compressor { return Zstd{Level: zstd.SpeedBestCompression} },
}

// ByName returns the compressor registered under `name`. The empty string
// gives the default.
func ByName(name string) (Compressor, error) {
	if name == "" {
		name = DefaultName
	}
	constructor, ok := compressorsByName[strings.ToLower(name)]
	if !ok {
		return nil, worldpack.ErrConfig.WithMessage(
			fmt.Sprintf(
				"unknown extras compressor %q, expected one of: %s",
				name,
				strings.Join(Names(), ", "),
			),
		)
	}
	return constructor(), nil
}

// Names lists the registered compressor names in sorted order.
func Names() []string {
	names := make([]string, 0, len(compressorsByName))
	for name := range compressorsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gzip compresses with gzip (RFC 1952). The output is readable by any gzip
// implementation.
type Gzip struct {
	Level int
}

func (g Gzip) Name() string {
	return "gzip"
}

func (g Gzip) CompressBytes(data []byte) ([]byte, error) {
	var buffer bytes.Buffer

	// The pool is at most a few megabytes for any sane input, so the best
	// compression level costs next to nothing.
	gzWriter, err := gzip.NewWriterLevel(&buffer, g.Level)
	if err != nil {
		return nil, worldpack.ErrConfig.Wrap(err)
	}

	if _, err = gzWriter.Write(data); err != nil {
		gzWriter.Close()
		return nil, worldpack.ErrIOFailed.Wrap(err)
	}
	if err = gzWriter.Close(); err != nil {
		return nil, worldpack.ErrIOFailed.Wrap(err)
	}
	return buffer.Bytes(), nil
}

func (g Gzip) DecompressBytes(data []byte) ([]byte, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, worldpack.ErrIOFailed.Wrap(fmt.Errorf("bad gzip header: %w", err))
	}
	defer gzReader.Close()

	output, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, worldpack.ErrIOFailed.Wrap(err)
	}
	return output, nil
}

// Zstd compresses with Zstandard (RFC 8878).
type Zstd struct {
	Level zstd.EncoderLevel
}

func (z Zstd) Name() string {
	return "zstd"
}

func (z Zstd) CompressBytes(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.Level))
	if err != nil {
		return nil, worldpack.ErrConfig.Wrap(err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

func (z Zstd) DecompressBytes(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, worldpack.ErrConfig.Wrap(err)
	}
	defer decoder.Close()

	output, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, worldpack.ErrIOFailed.Wrap(err)
	}
	return output, nil
}
