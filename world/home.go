package world

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/dargueta/worldpack"
	"golang.org/x/crypto/blake2b"
)

// Deriver turns a key and an entry index into the bytes of a dictionary entry.
// Implementations must be deterministic and return at least
// [worldpack.ChunkSize] bytes; only the first ChunkSize are used.
type Deriver interface {
	DeriveChunk(key []byte, index byte) []byte
	Name() string
}

// SHA256Deriver hashes `key || index` with SHA-256. This is the derivation
// every existing container was written with.
type SHA256Deriver struct{}

func (SHA256Deriver) DeriveChunk(key []byte, index byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte{index})
	return h.Sum(nil)
}

func (SHA256Deriver) Name() string {
	return "sha256"
}

// BLAKE2bDeriver hashes `key || index` with BLAKE2b-256. Containers written
// with it can only be read back with it.
type BLAKE2bDeriver struct{}

func (BLAKE2bDeriver) DeriveChunk(key []byte, index byte) []byte {
	input := make([]byte, 0, len(key)+1)
	input = append(input, key...)
	input = append(input, index)
	digest := blake2b.Sum256(input)
	return digest[:]
}

func (BLAKE2bDeriver) Name() string {
	return "blake2b"
}

// DeriverByName resolves a hash name from the command line or configuration.
// The empty string selects the default, SHA-256.
func DeriverByName(name string) (Deriver, error) {
	switch strings.ToLower(name) {
	case "", "sha256":
		return SHA256Deriver{}, nil
	case "blake2b":
		return BLAKE2bDeriver{}, nil
	default:
		return nil, worldpack.ErrConfig.WithMessage(
			fmt.Sprintf("unknown dictionary hash %q", name))
	}
}

// HomeTable is the fixed dictionary of [worldpack.HomeEntries] chunks derived
// from a world's key.
type HomeTable struct {
	entries [worldpack.HomeEntries][worldpack.ChunkSize]byte
	index   map[[worldpack.ChunkSize]byte]uint8
}

// DeriveHome builds the home table for `key`. The same key and deriver always
// produce the same table in the same order.
func DeriveHome(key []byte, deriver Deriver) (*HomeTable, error) {
	table := &HomeTable{
		index: make(map[[worldpack.ChunkSize]byte]uint8, worldpack.HomeEntries),
	}

	for i := 0; i < worldpack.HomeEntries; i++ {
		digest := deriver.DeriveChunk(key, byte(i))
		if len(digest) < worldpack.ChunkSize {
			return nil, worldpack.ErrConfig.WithMessage(
				fmt.Sprintf(
					"%s produced %d bytes for entry %d, need at least %d",
					deriver.Name(),
					len(digest),
					i,
					worldpack.ChunkSize,
				),
			)
		}
		copy(table.entries[i][:], digest)

		// Entry 15 can't be referenced because its type value means "extras".
		// On the astronomically unlikely chance two entries collide, the lower
		// index wins, which is what a linear scan would do.
		if i <= worldpack.MaxHomeType {
			if _, exists := table.index[table.entries[i]]; !exists {
				table.index[table.entries[i]] = uint8(i)
			}
		}
	}
	return table, nil
}

// ForWorld derives the home table from a world's key.
func ForWorld(w World, deriver Deriver) (*HomeTable, error) {
	return DeriveHome(w.Key[:], deriver)
}

// Entry returns a copy of the dictionary entry at `index`.
func (t *HomeTable) Entry(index int) []byte {
	out := make([]byte, worldpack.ChunkSize)
	copy(out, t.entries[index][:])
	return out
}

// EntryRef returns the dictionary entry at `index` without copying. Callers
// must not modify it.
func (t *HomeTable) EntryRef(index int) []byte {
	return t.entries[index][:]
}

// Lookup gives the index of the entry that is byte-for-byte identical to
// `chunk`. Chunks of the wrong size never match.
func (t *HomeTable) Lookup(chunk []byte) (uint8, bool) {
	if len(chunk) != worldpack.ChunkSize {
		return 0, false
	}
	var key [worldpack.ChunkSize]byte
	copy(key[:], chunk)
	index, ok := t.index[key]
	return index, ok
}
