package codec

import (
	"fmt"
	"math"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/utilities/bitio"
	"github.com/dargueta/worldpack/utilities/compression"
	"github.com/dargueta/worldpack/world"
	"github.com/hashicorp/go-multierror"
)

// Options configures a [Codec] built with [NewFromOptions].
type Options struct {
	// WorldPath is the world file the home dictionary is derived from.
	WorldPath string
	// ExtrasCodec names the secondary compressor for the extras pool; see
	// [compression.ByName].
	ExtrasCodec string
	// Hash names the dictionary derivation; see [world.DeriverByName].
	Hash string
}

// DefaultOptions gives the settings every existing container was written with.
func DefaultOptions() Options {
	return Options{
		WorldPath:   worldpack.DefaultWorldFile,
		ExtrasCodec: compression.DefaultName,
		Hash:        world.SHA256Deriver{}.Name(),
	}
}

// Codec compresses and decompresses containers for one home dictionary. It
// holds no mutable state, so a single Codec can serve concurrent calls.
type Codec struct {
	home       *world.HomeTable
	compressor compression.Compressor
}

// New creates a codec from an already-derived home table.
func New(home *world.HomeTable, compressor compression.Compressor) *Codec {
	return &Codec{home: home, compressor: compressor}
}

// NewFromOptions loads the world file and resolves the configured algorithms.
func NewFromOptions(opts Options) (*Codec, error) {
	if opts.WorldPath == "" {
		opts.WorldPath = worldpack.DefaultWorldFile
	}

	compressor, err := compression.ByName(opts.ExtrasCodec)
	if err != nil {
		return nil, err
	}
	deriver, err := world.DeriverByName(opts.Hash)
	if err != nil {
		return nil, err
	}

	w, err := world.Load(opts.WorldPath)
	if err != nil {
		return nil, err
	}
	home, err := world.ForWorld(w, deriver)
	if err != nil {
		return nil, err
	}

	log.Debugf(
		"loaded world %q, hash %s, extras codec %s",
		opts.WorldPath,
		deriver.Name(),
		compressor.Name(),
	)
	return New(home, compressor), nil
}

// Home returns the codec's dictionary.
func (c *Codec) Home() *world.HomeTable {
	return c.home
}

// Stats describes a container.
type Stats struct {
	// OriginalLength is the size of the uncompressed data.
	OriginalLength uint64
	// Chunks is the number of chunks the data was split into.
	Chunks int
	// ExtrasChunks is the number of chunks stored literally.
	ExtrasChunks int
	// Runs is the number of maximal runs of same-type chunks.
	Runs int
	// FieldGroups is the number of field groups in the bitstream.
	FieldGroups int
	BitstreamBytes int
	ExtrasBytes    int
	ContainerBytes int
	// HomeCoverage has bit i set if dictionary entry i was used at least once.
	HomeCoverage bitmap.Bitmap
}

// EntriesUsed gives the number of distinct dictionary entries the data used.
func (s Stats) EntriesUsed() int {
	used := 0
	for i := 0; i < len(s.HomeCoverage)*8; i++ {
		if s.HomeCoverage.Get(i) {
			used++
		}
	}
	return used
}

// Report is what [Codec.Decompress] returns on success.
type Report struct {
	Stats
	// MarkerFound is false if the end-of-stream marker wasn't found.
	MarkerFound bool
	// MissingExtras is the number of literal chunks the extras pool had no
	// data for. They were restored as zeros.
	MissingExtras int
	// Warnings collects recoverable problems. It is nil if decoding went
	// cleanly; otherwise the output may not match the original data.
	Warnings *multierror.Error
}

// Degraded is true if any recoverable problem came up while decoding.
func (r Report) Degraded() bool {
	return r.Warnings.ErrorOrNil() != nil
}

// Compress encodes `data` into a container.
func (c *Codec) Compress(data []byte) ([]byte, Stats, error) {
	chunks, origLen := Split(data)
	if uint64(len(chunks)) > math.MaxUint32 {
		return nil, Stats{}, worldpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("%d bytes splits into more chunks than a container can hold", origLen))
	}

	types := Classify(chunks, c.home)
	stats := Stats{
		OriginalLength: origLen,
		Chunks:         len(chunks),
		HomeCoverage:   bitmap.New(worldpack.HomeEntries),
	}

	pool := NewPool(0)
	for i, chunkType := range types {
		if chunkType.IsExtras() {
			pool.Add(chunks[i])
		} else {
			stats.HomeCoverage.Set(int(chunkType), true)
		}
	}
	stats.ExtrasChunks = pool.Len()

	runs := GroupRuns(types)
	stats.Runs = len(runs)

	// A short group is one byte and the marker two. Good enough as a hint.
	writer := bitio.NewWriter(len(runs) + 2)
	stats.FieldGroups = EncodeRuns(writer, runs)

	extras, err := pool.Seal(c.compressor)
	if err != nil {
		return nil, stats, err
	}

	container := Container{
		Header: Header{
			ChunkCount: uint32(len(chunks)),
			OrigLen:    origLen,
		},
		Bitstream: writer.Bytes(),
		Extras:    extras,
	}
	output, err := container.MarshalBinary()
	if err != nil {
		return nil, stats, err
	}

	stats.BitstreamBytes = len(container.Bitstream)
	stats.ExtrasBytes = len(extras)
	stats.ContainerBytes = len(output)

	log.Debugf(
		"compressed %d bytes: %d chunks, %d runs, %d extras, %d-byte container",
		origLen,
		stats.Chunks,
		stats.Runs,
		stats.ExtrasChunks,
		stats.ContainerBytes,
	)
	return output, stats, nil
}

// Decompress restores the original data from a container.
//
// Fatal problems (short header, truncated bitstream, missing extras length,
// undecodable extras blob) return an error and no data. Recoverable ones are
// listed in the report's warnings.
func (c *Codec) Decompress(container []byte) ([]byte, Report, error) {
	parsed, err := ParseContainer(container)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{
		Stats: Stats{
			OriginalLength: parsed.OrigLen,
			FieldGroups:    len(parsed.Fields),
			BitstreamBytes: len(parsed.Bitstream),
			ExtrasBytes:    len(parsed.Extras),
			ContainerBytes: len(container),
			HomeCoverage:   bitmap.New(worldpack.HomeEntries),
		},
		MarkerFound: parsed.MarkerFound,
	}
	if !parsed.MarkerFound {
		report.Warnings = multierror.Append(
			report.Warnings,
			worldpack.ErrMarkerAbsent.WithMessage(
				fmt.Sprintf("bitstream ended at byte %d", worldpack.HeaderSize+len(parsed.Bitstream)),
			),
		)
	}

	restored, slots := c.expand(parsed.Fields, &report.Stats)

	missing, err := PatchExtras(restored, slots, parsed.Extras, c.compressor)
	if err != nil {
		return nil, Report{}, err
	}
	if missing > 0 {
		log.Warningf(
			"extras pool is short %d of %d literal chunks, filling with zeros",
			missing,
			len(slots),
		)
		report.MissingExtras = missing
		report.Warnings = multierror.Append(
			report.Warnings,
			worldpack.ErrExtrasShortfall.WithMessage(
				fmt.Sprintf("%d of %d literal chunks missing", missing, len(slots)),
			),
		)
	}

	if parsed.OrigLen > uint64(len(restored)) {
		log.Warningf(
			"header claims %d bytes but the bitstream only covers %d",
			parsed.OrigLen,
			len(restored),
		)
	} else {
		restored = restored[:parsed.OrigLen]
	}
	return restored, report, nil
}

// expand turns decoded field groups into chunk data. Literal chunks are left
// zeroed and their chunk indexes returned in order so the extras pool can be
// patched in afterwards.
func (c *Codec) expand(fields []Field, stats *Stats) ([]byte, []int) {
	totalChunks := 0
	for _, field := range fields {
		totalChunks += field.Length()
	}

	restored := make([]byte, totalChunks*worldpack.ChunkSize)
	var slots []int

	chunkIndex := 0
	for _, field := range fields {
		for i := 0; i < field.Length(); i++ {
			if field.Type.IsExtras() {
				slots = append(slots, chunkIndex)
			} else {
				copy(restored[chunkIndex*worldpack.ChunkSize:], c.home.EntryRef(int(field.Type)))
				stats.HomeCoverage.Set(int(field.Type), true)
			}
			chunkIndex++
		}
	}

	stats.Chunks = totalChunks
	stats.ExtrasChunks = len(slots)
	stats.Runs = len(FieldsToRuns(fields))
	return restored, slots
}
