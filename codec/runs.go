package codec

import (
	"fmt"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/utilities/bitio"
	"github.com/dargueta/worldpack/world"
)

// Type classifies a chunk. Values up to [worldpack.MaxHomeType] are indexes
// into the home dictionary; [worldpack.ExtrasType] marks a literal chunk.
type Type uint8

// IsExtras is true if chunks of this type are stored in the extras pool.
func (t Type) IsExtras() bool {
	return t == worldpack.ExtrasType
}

func (t Type) String() string {
	if t.IsExtras() {
		return "extras"
	}
	return fmt.Sprintf("home[%d]", uint8(t))
}

// Run is a maximal sequence of consecutive chunks of the same type.
type Run struct {
	Type Type
	// Length is the number of chunks in the run. Valid runs always have at
	// least one.
	Length int
}

// Field is one group of bit fields in the stream. A run is written as one or
// more of these; see [SplitRun].
type Field struct {
	Type Type
	// Extended is true if the group uses the small-run-times-multiplier form.
	Extended bool
	// SmallRun is the run length for the short form, or the factor for the
	// extended form. Always in [1, 8].
	SmallRun int
	// Multiplier is in [1, 32] for the extended form, and always 1 for the
	// short form.
	Multiplier int
}

// Length gives the number of chunks the field group expands to.
func (f Field) Length() int {
	return f.SmallRun * f.Multiplier
}

// Bits gives the number of bits the field group occupies in the stream.
func (f Field) Bits() int {
	bits := worldpack.TypeBits + worldpack.FlagBits + worldpack.SmallRunBits
	if f.Extended {
		bits += worldpack.MultiplierBits
	}
	return bits
}

func shortField(t Type, length int) Field {
	return Field{Type: t, SmallRun: length, Multiplier: 1}
}

// Classify looks up every chunk in the home dictionary and returns its type.
func Classify(chunks [][]byte, home *world.HomeTable) []Type {
	types := make([]Type, len(chunks))
	for i, chunk := range chunks {
		index, ok := home.Lookup(chunk)
		if ok {
			types[i] = Type(index)
		} else {
			types[i] = worldpack.ExtrasType
		}
	}
	return types
}

// GroupRuns collapses a type sequence into maximal runs. Run lengths are not
// capped here; [SplitRun] deals with long runs.
func GroupRuns(types []Type) []Run {
	var runs []Run
	for i := 0; i < len(types); {
		runLength := 1
		for i+runLength < len(types) && types[i+runLength] == types[i] {
			runLength++
		}
		runs = append(runs, Run{Type: types[i], Length: runLength})
		i += runLength
	}
	return runs
}

// SplitRun breaks a run into the field groups it's written as.
//
// Anything up to eight chunks is a single short group. Longer remainders are
// taken eight at a time with the largest multiplier that doesn't overshoot, so
// a run of 256 is one extended group, 257 is an extended group followed by a
// short group of one, and so on.
func SplitRun(run Run) []Field {
	var fields []Field

	remaining := run.Length
	for remaining > 0 {
		if remaining <= worldpack.MaxShortRun {
			fields = append(fields, shortField(run.Type, remaining))
			break
		}

		smallRun := worldpack.MaxShortRun
		if remaining < smallRun {
			smallRun = remaining
		}
		multiplierMinus1 := remaining/smallRun - 1
		if multiplierMinus1 > worldpack.MaxMultiplier-1 {
			multiplierMinus1 = worldpack.MaxMultiplier - 1
		}

		if multiplierMinus1 < 0 {
			// Can't happen with a remainder over eight. Finish the run with a
			// short group rather than loop forever.
			fields = append(fields, shortField(run.Type, smallRun))
			break
		}

		field := Field{
			Type:       run.Type,
			Extended:   true,
			SmallRun:   smallRun,
			Multiplier: multiplierMinus1 + 1,
		}
		fields = append(fields, field)
		remaining -= field.Length()
	}
	return fields
}

// WriteField writes a single field group to the stream.
func WriteField(w *bitio.Writer, field Field) {
	w.WriteBits(uint32(field.Type), worldpack.TypeBits)
	if field.Extended {
		w.WriteBits(1, worldpack.FlagBits)
		w.WriteBits(uint32(field.SmallRun-1), worldpack.SmallRunBits)
		w.WriteBits(uint32(field.Multiplier-1), worldpack.MultiplierBits)
	} else {
		w.WriteBits(0, worldpack.FlagBits)
		w.WriteBits(uint32(field.SmallRun-1), worldpack.SmallRunBits)
	}
}

// EncodeRuns writes every run followed by the end-of-stream marker, then pads
// the stream out to a byte boundary. It returns the number of field groups
// written.
func EncodeRuns(w *bitio.Writer, runs []Run) int {
	totalFields := 0
	for _, run := range runs {
		for _, field := range SplitRun(run) {
			WriteField(w, field)
			totalFields++
		}
	}

	w.WriteBits(worldpack.MarkerValue, worldpack.MarkerBits)
	w.Flush()
	return totalFields
}

// ReadField reads a single field group from the stream.
func ReadField(r *bitio.Reader) (Field, error) {
	typeValue, err := r.ReadBits(worldpack.TypeBits)
	if err != nil {
		return Field{}, err
	}
	flag, err := r.ReadBits(worldpack.FlagBits)
	if err != nil {
		return Field{}, err
	}
	smallRunMinus1, err := r.ReadBits(worldpack.SmallRunBits)
	if err != nil {
		return Field{}, err
	}

	field := shortField(Type(typeValue), int(smallRunMinus1)+1)
	if flag == 0 {
		return field, nil
	}

	multiplierMinus1, err := r.ReadBits(worldpack.MultiplierBits)
	if err != nil {
		return Field{}, err
	}
	field.Extended = true
	field.Multiplier = int(multiplierMinus1) + 1
	return field, nil
}

// DecodeFields reads field groups until they account for at least
// `chunkCount` chunks, then consumes the end-of-stream marker and aligns the
// reader to the next byte.
//
// Running out of data before the chunk count is reached is fatal and wraps
// [worldpack.ErrTruncatedStream]. Running out while looking for the marker is
// not; `markerFound` is false and the reader is left at the end of the data.
func DecodeFields(r *bitio.Reader, chunkCount uint64) (fields []Field, markerFound bool, err error) {
	expanded := uint64(0)
	for expanded < chunkCount {
		field, err := ReadField(r)
		if err != nil {
			return fields, false, worldpack.ErrTruncatedStream.Wrap(
				fmt.Errorf(
					"decoded %d of %d chunks in %d field groups: %w",
					expanded,
					chunkCount,
					len(fields),
					err,
				),
			)
		}
		fields = append(fields, field)
		expanded += uint64(field.Length())
	}

	markerFound = consumeMarker(r)
	r.Align()
	return fields, markerFound, nil
}

// consumeMarker reads one bit at a time until it has seen nine 1 bits in a
// row. Returns false if the stream ended first.
func consumeMarker(r *bitio.Reader) bool {
	ones := 0
	for ones < worldpack.MarkerBits {
		bit, err := r.ReadBit()
		if err != nil {
			return false
		}
		if bit == 1 {
			ones++
		} else {
			ones = 0
		}
	}
	return true
}

// FieldsToRuns merges adjacent field groups of the same type back into runs.
func FieldsToRuns(fields []Field) []Run {
	var runs []Run
	for _, field := range fields {
		last := len(runs) - 1
		if last >= 0 && runs[last].Type == field.Type {
			runs[last].Length += field.Length()
		} else {
			runs = append(runs, Run{Type: field.Type, Length: field.Length()})
		}
	}
	return runs
}

// ExpandRuns turns runs back into the type of every chunk, in order.
func ExpandRuns(runs []Run) []Type {
	total := 0
	for _, run := range runs {
		total += run.Length
	}

	types := make([]Type, 0, total)
	for _, run := range runs {
		for i := 0; i < run.Length; i++ {
			types = append(types, run.Type)
		}
	}
	return types
}
