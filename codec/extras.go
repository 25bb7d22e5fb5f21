package codec

import (
	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/utilities/compression"
)

// Pool collects literal chunks in the order they're encountered.
type Pool struct {
	data []byte
}

// NewPool returns an empty pool with room for `sizeHint` chunks.
func NewPool(sizeHint int) *Pool {
	return &Pool{data: make([]byte, 0, sizeHint*worldpack.ChunkSize)}
}

// Add appends a chunk to the pool.
func (p *Pool) Add(chunk []byte) {
	p.data = append(p.data, chunk...)
}

// Len gives the number of chunks in the pool.
func (p *Pool) Len() int {
	return len(p.data) / worldpack.ChunkSize
}

// Seal compresses the pool's contents. An empty pool gives an empty blob and
// the compressor is never called.
func (p *Pool) Seal(compressor compression.Compressor) ([]byte, error) {
	if len(p.data) == 0 {
		return []byte{}, nil
	}
	return compressor.CompressBytes(p.data)
}

// PatchExtras decompresses an extras blob and copies its chunks into the
// literal slots of `restored`, in order. `slots` holds chunk indexes, not byte
// offsets.
//
// Slots the pool has no data for are left untouched, i.e. as the zero chunks
// decoding filled them with. The number of such slots is returned; it's only
// nonzero if the container is damaged. A partial last chunk in the pool is
// copied as far as it goes.
func PatchExtras(
	restored []byte,
	slots []int,
	blob []byte,
	compressor compression.Compressor,
) (int, error) {
	var pool []byte
	if len(blob) > 0 {
		var err error
		pool, err = compressor.DecompressBytes(blob)
		if err != nil {
			return 0, err
		}
	}

	missing := 0
	for i, slot := range slots {
		poolStart := i * worldpack.ChunkSize
		if poolStart >= len(pool) {
			missing++
			continue
		}
		poolEnd := poolStart + worldpack.ChunkSize
		if poolEnd > len(pool) {
			poolEnd = len(pool)
		}

		outStart := slot * worldpack.ChunkSize
		copy(restored[outStart:outStart+worldpack.ChunkSize], pool[poolStart:poolEnd])
	}

	if extra := len(pool) - len(slots)*worldpack.ChunkSize; extra > 0 {
		log.Debugf("extras pool has %d bytes more than the literal slots need", extra)
	}
	return missing, nil
}
