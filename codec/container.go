package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/utilities/bitio"
	"github.com/noxer/bytewriter"
)

// Header is the fixed-size start of a container.
type Header struct {
	// ChunkCount is the number of chunks the original input was split into.
	ChunkCount uint32
	// OrigLen is the length of the original input, before padding.
	OrigLen uint64
}

// Container is the serialized output of the codec.
type Container struct {
	Header
	// Bitstream holds the run-length coded chunk types, including the end
	// marker and the padding up to a byte boundary.
	Bitstream []byte
	// Extras is the compressed pool of literal chunks. Empty if the input had
	// none.
	Extras []byte
}

// Size gives the number of bytes [Container.MarshalBinary] will produce.
func (c *Container) Size() int {
	return worldpack.HeaderSize + len(c.Bitstream) + worldpack.TrailerSize + len(c.Extras)
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (c *Container) MarshalBinary() ([]byte, error) {
	if uint64(len(c.Extras)) > 0xffffffff {
		return nil, worldpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("extras blob of %d bytes doesn't fit in a 32-bit length", len(c.Extras)))
	}

	output := make([]byte, c.Size())
	writer := bytewriter.New(output)

	fields := []interface{}{
		c.ChunkCount,
		c.OrigLen,
		c.Bitstream,
		uint32(len(c.Extras)),
		c.Extras,
	}
	for _, field := range fields {
		if raw, ok := field.([]byte); ok && len(raw) == 0 {
			continue
		}
		if err := binary.Write(writer, binary.LittleEndian, field); err != nil {
			return nil, worldpack.ErrIOFailed.Wrap(err)
		}
	}
	return output, nil
}

// ParsedContainer is a container along with the field groups decoded from its
// bitstream.
type ParsedContainer struct {
	Container
	Fields []Field
	// MarkerFound is false if the data ran out while looking for the end of
	// stream marker.
	MarkerFound bool
	// ExtrasDeclared is the extras length stored in the container. It can be
	// larger than len(Extras) if the container was cut short.
	ExtrasDeclared uint32
}

// ParseHeader reads the fixed-size header at the start of `data`.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < worldpack.HeaderSize {
		return Header{}, worldpack.ErrShortHeader.WithMessage(
			fmt.Sprintf("need %d bytes, got %d", worldpack.HeaderSize, len(data)))
	}
	return Header{
		ChunkCount: binary.LittleEndian.Uint32(data[0:4]),
		OrigLen:    binary.LittleEndian.Uint64(data[4:12]),
	}, nil
}

// ParseTrailer reads the extras length at `offset` and returns the blob that
// follows it, along with the declared length. The blob is cut short if the
// data ends before `extras_len` bytes are available.
func ParseTrailer(data []byte, offset int) ([]byte, uint32, error) {
	if offset+worldpack.TrailerSize > len(data) {
		return nil, 0, worldpack.ErrMissingTrailer.WithMessage(
			fmt.Sprintf(
				"bitstream ends at byte %d of %d, no room for the extras length",
				offset,
				len(data),
			),
		)
	}

	declared := binary.LittleEndian.Uint32(data[offset : offset+worldpack.TrailerSize])
	start := offset + worldpack.TrailerSize
	end := uint64(start) + uint64(declared)
	if end > uint64(len(data)) {
		log.Warningf(
			"extras blob declares %d bytes but only %d remain", declared, len(data)-start)
		end = uint64(len(data))
	}
	return data[start:end], declared, nil
}

// ParseContainer splits a serialized container into its parts. This decodes
// the bitstream, since that's the only way to find where it ends.
func ParseContainer(data []byte) (*ParsedContainer, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	reader := bitio.NewReader(data, worldpack.HeaderSize)
	fields, markerFound, err := DecodeFields(reader, uint64(header.ChunkCount))
	if err != nil {
		return nil, err
	}
	if !markerFound {
		log.Warningf(
			"end-of-stream marker missing after %d field groups", len(fields))
	}

	bitstreamEnd := reader.Offset()
	extras, declared, err := ParseTrailer(data, bitstreamEnd)
	if err != nil {
		return nil, err
	}

	return &ParsedContainer{
		Container: Container{
			Header:    header,
			Bitstream: data[worldpack.HeaderSize:bitstreamEnd],
			Extras:    extras,
		},
		Fields:         fields,
		MarkerFound:    markerFound,
		ExtrasDeclared: declared,
	}, nil
}

// ReadContainer reads a whole container from `source` and parses it.
func ReadContainer(source io.Reader) (*ParsedContainer, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return nil, worldpack.ErrIOFailed.Wrap(err)
	}
	return ParseContainer(data)
}
