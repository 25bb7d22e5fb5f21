package codec

import "github.com/dargueta/worldpack"

// Split pads `data` with zeros to a multiple of [worldpack.ChunkSize] and cuts
// it into chunks. The chunks share one backing buffer, so `data` itself is
// never modified. Empty input gives no chunks at all.
func Split(data []byte) ([][]byte, uint64) {
	origLen := uint64(len(data))
	if len(data) == 0 {
		return nil, 0
	}

	padding := (worldpack.ChunkSize - len(data)%worldpack.ChunkSize) % worldpack.ChunkSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)

	chunks := make([][]byte, len(padded)/worldpack.ChunkSize)
	for i := range chunks {
		start := i * worldpack.ChunkSize
		chunks[i] = padded[start : start+worldpack.ChunkSize : start+worldpack.ChunkSize]
	}
	return chunks, origLen
}

// ChunkCount gives the number of chunks [Split] would produce for an input of
// `length` bytes.
func ChunkCount(length uint64) uint64 {
	return (length + worldpack.ChunkSize - 1) / worldpack.ChunkSize
}
