package testing

import (
	"crypto/rand"
	"io"
	"path/filepath"
	"testing"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/world"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomWorld generates a world from random bytes. It is guaranteed to
// either return a valid world or fail the test and abort.
func CreateRandomWorld(t *testing.T) world.World {
	w, err := world.Generate(rand.Reader)
	require.NoError(t, err, "failed to generate a random world")
	return w
}

// CreateWorldFile writes a random world to a temporary directory and returns
// both the world and the path of the file. The file is removed automatically
// when the test finishes.
func CreateWorldFile(t *testing.T) (world.World, string) {
	w := CreateRandomWorld(t)
	path := filepath.Join(t.TempDir(), worldpack.DefaultWorldFile)
	require.NoError(t, w.Save(path), "failed to save world file")
	return w, path
}

// CreateHome derives the default home table for `w`.
func CreateHome(t *testing.T, w world.World) *world.HomeTable {
	home, err := world.ForWorld(w, world.SHA256Deriver{})
	require.NoError(t, err, "failed to derive home table")
	return home
}

// CreateRandomData returns `size` random bytes. Random data essentially never
// matches a dictionary entry, so every chunk of it lands in the extras pool.
func CreateRandomData(t *testing.T, size int) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}

// ConcatEntries builds input data out of home entries, one per index given.
// The result is `len(indexes) * ChunkSize` bytes long and every chunk of it
// matches the dictionary.
func ConcatEntries(home *world.HomeTable, indexes ...int) []byte {
	data := make([]byte, 0, len(indexes)*worldpack.ChunkSize)
	for _, index := range indexes {
		data = append(data, home.EntryRef(index)...)
	}
	return data
}

// LoadContainer wraps a container's bytes in a seekable stream. Writes to the
// stream don't affect `container`, and its size is fixed to len(container).
func LoadContainer(t *testing.T, container []byte) io.ReadWriteSeeker {
	require.GreaterOrEqual(
		t, len(container), worldpack.HeaderSize, "container is smaller than its header")

	buffer := make([]byte, len(container))
	copy(buffer, container)
	return bytesextra.NewReadWriteSeeker(buffer)
}
