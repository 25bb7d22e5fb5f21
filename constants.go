package worldpack

// ChunkSize is the number of bytes in a single chunk. Inputs are zero-padded
// up to a multiple of this before being split.
const ChunkSize = 18

// HomeEntries is the number of chunks derived from a world's key.
const HomeEntries = 16

// ExtrasType is the chunk type for a chunk with no dictionary match. Types
// 0 through 14 are dictionary indices.
const ExtrasType = 15

// MaxHomeType is the largest type that refers to a dictionary entry. Entry 15
// of the home table is derived but can never be matched.
const MaxHomeType = ExtrasType - 1

// Container layout. All integers are little-endian.
const (
	// HeaderSize covers the 4-byte chunk count and the 8-byte original length.
	HeaderSize = 12
	// TrailerSize is the size of the extras length field following the
	// bitstream.
	TrailerSize = 4
)

// Bitstream field widths.
const (
	TypeBits       = 4
	FlagBits       = 1
	SmallRunBits   = 3
	MultiplierBits = 5
	MarkerBits     = 9
	// MarkerValue is the end-of-stream marker: nine 1 bits.
	MarkerValue = 1<<MarkerBits - 1
)

// MaxShortRun is the longest run the short form can describe, and the largest
// factor the extended form will use.
const MaxShortRun = 1 << SmallRunBits

// MaxMultiplier is the largest multiplier the extended form can describe.
const MaxMultiplier = 1 << MultiplierBits

// WorldSize is the minimum size of a world file: a 16-byte mapping table
// followed by a 16-byte key.
const WorldSize = 32

// DefaultWorldFile is the world file used when the caller doesn't give one.
const DefaultWorldFile = "world_package.bin"
