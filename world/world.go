// Package world loads the secret material a codec is keyed with and derives
// the home dictionary from it.
package world

import (
	"fmt"
	"io"
	"os"

	"github.com/dargueta/worldpack"
)

// World is the secret material shared by the compressing and decompressing
// sides. It's immutable once loaded.
type World struct {
	// Mapping is carried along with the key but doesn't take part in
	// deriving the home dictionary.
	Mapping [16]byte
	// Key seeds the home dictionary.
	Key [16]byte
}

// Parse builds a World from the contents of a world file. Anything past the
// first [worldpack.WorldSize] bytes is ignored.
func Parse(data []byte) (World, error) {
	if len(data) < worldpack.WorldSize {
		return World{}, worldpack.ErrConfig.WithMessage(
			fmt.Sprintf(
				"world file must be at least %d bytes, got %d",
				worldpack.WorldSize,
				len(data),
			),
		)
	}

	var w World
	copy(w.Mapping[:], data[:16])
	copy(w.Key[:], data[16:worldpack.WorldSize])
	return w, nil
}

// Load reads and parses the world file at `path`. A missing or unreadable file
// is a configuration error.
func Load(path string) (World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return World{}, worldpack.ErrConfig.Wrap(err)
	}
	return Parse(data)
}

// Generate creates a new World from `source`, usually crypto/rand.Reader.
func Generate(source io.Reader) (World, error) {
	var raw [worldpack.WorldSize]byte
	if _, err := io.ReadFull(source, raw[:]); err != nil {
		return World{}, worldpack.ErrIOFailed.Wrap(err)
	}
	return Parse(raw[:])
}

// Bytes returns the serialized form of the world, suitable for [Parse].
func (w World) Bytes() []byte {
	out := make([]byte, 0, worldpack.WorldSize)
	out = append(out, w.Mapping[:]...)
	return append(out, w.Key[:]...)
}

// Save writes the world file to `path`. Existing files are overwritten.
func (w World) Save(path string) error {
	err := os.WriteFile(path, w.Bytes(), 0600)
	if err != nil {
		return worldpack.ErrIOFailed.Wrap(err)
	}
	return nil
}
