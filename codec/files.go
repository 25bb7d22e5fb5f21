package codec

import (
	"os"
	"path/filepath"

	"github.com/dargueta/worldpack"
)

// CompressFile compresses the file at `inputPath` into a container at
// `outputPath`, using the world and algorithms given in `opts`.
//
// The output is written to a temporary file next to `outputPath` and only
// renamed into place once everything succeeded, so a failure never leaves a
// partial container behind.
func CompressFile(inputPath, outputPath string, opts Options) (Stats, error) {
	codec, err := NewFromOptions(opts)
	if err != nil {
		return Stats{}, err
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return Stats{}, worldpack.ErrIOFailed.Wrap(err)
	}

	output, stats, err := codec.Compress(input)
	if err != nil {
		return stats, err
	}

	if err = writeFileAtomic(outputPath, output); err != nil {
		return stats, err
	}
	log.Infof(
		"wrote %s; orig %d bytes; chunks %d; bitstream_bytes %d; extras_chunks %d",
		outputPath,
		stats.OriginalLength,
		stats.Chunks,
		stats.BitstreamBytes,
		stats.ExtrasChunks,
	)
	return stats, nil
}

// DecompressFile restores the original data from the container at
// `inputPath` and writes it to `outputPath`. As with [CompressFile], nothing is
// written if decoding fails.
func DecompressFile(inputPath, outputPath string, opts Options) (Report, error) {
	codec, err := NewFromOptions(opts)
	if err != nil {
		return Report{}, err
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return Report{}, worldpack.ErrIOFailed.Wrap(err)
	}

	output, report, err := codec.Decompress(input)
	if err != nil {
		return report, err
	}

	if err = writeFileAtomic(outputPath, output); err != nil {
		return report, err
	}
	log.Infof("decompressed %s to %s (%d bytes)", inputPath, outputPath, len(output))
	return report, nil
}

func writeFileAtomic(path string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return worldpack.ErrIOFailed.Wrap(err)
	}
	tempPath := tempFile.Name()

	_, err = tempFile.Write(data)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tempPath, path)
	}
	if err != nil {
		os.Remove(tempPath)
		return worldpack.ErrIOFailed.Wrap(err)
	}
	return nil
}
