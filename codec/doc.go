// Package codec implements the world-keyed chunk codec.
//
// Input is split into 18-byte chunks, the last one zero-padded. Every chunk
// that is identical to one of the first fifteen entries of the home dictionary
// is replaced by that entry's index; every other chunk gets type 15 and is
// stored literally in the extras pool. The sequence of types is then
// run-length encoded into a bitstream, which is where nearly all the savings
// come from: a file that is mostly dictionary hits collapses to a handful of
// bytes.
//
// Each run is written as one or more groups of bit fields, LSB first:
//
//	short:    type(4) flag=0(1) run-1(3)                   run = 1..8
//	extended: type(4) flag=1(1) small-1(3) multiplier-1(5) run = small * multiplier
//
// Runs longer than eight are broken into extended groups of eight times the
// largest multiplier that fits, with whatever is left over written as a short
// group. After the last run comes a marker of nine 1 bits, then zero padding to
// the next byte.
//
// A container is laid out as
//
//	chunk_count  uint32
//	orig_len     uint64
//	bitstream    (variable)
//	extras_len   uint32
//	extras_blob  [extras_len]byte
//
// with all integers little-endian. The extras blob is the literal chunks,
// concatenated in the order they appear, run through the secondary compressor.
//
// Decoding is lenient in two places, for compatibility with containers that
// were written by older tools: a missing end marker is ignored, and literal
// slots the extras pool doesn't have data for are left as zeros. Both are
// reported as warnings on the decode [Report] rather than as errors.
package codec
