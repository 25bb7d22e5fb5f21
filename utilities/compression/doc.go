// Package compression provides the secondary compressors used for a
// container's extras pool.
//
// Chunks that don't match the home dictionary are stored literally, one after
// the other, and the whole pool is then run through a general-purpose
// compressor. The codec only needs the transform to be reversible, so any
// [Compressor] will do as long as the compressing and decompressing sides
// agree on it. The container doesn't record which one was used.
//
// Gzip is the default because that's what every existing container's extras
// blob holds. Zstandard is usually smaller and much faster to decode, but a
// container written with it can only be read with it.
package compression
