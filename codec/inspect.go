package codec

// FieldRecord describes one field group of a container's bitstream. The csv
// tags give the column names used by the `inspect` command.
type FieldRecord struct {
	Index      int    `csv:"index"`
	FirstChunk int    `csv:"first_chunk"`
	Type       uint8  `csv:"type"`
	Kind       string `csv:"kind"`
	Form       string `csv:"form"`
	SmallRun   int    `csv:"small_run"`
	Multiplier int    `csv:"multiplier"`
	Length     int    `csv:"length"`
	Bits       int    `csv:"bits"`
}

// Inspect decodes the bitstream of a container and lists its field groups. The
// extras blob isn't decompressed, so no world is needed.
func Inspect(container []byte) (*ParsedContainer, []FieldRecord, error) {
	parsed, err := ParseContainer(container)
	if err != nil {
		return nil, nil, err
	}

	records := make([]FieldRecord, len(parsed.Fields))
	firstChunk := 0
	for i, field := range parsed.Fields {
		form := "short"
		if field.Extended {
			form = "extended"
		}
		records[i] = FieldRecord{
			Index:      i,
			FirstChunk: firstChunk,
			Type:       uint8(field.Type),
			Kind:       field.Type.String(),
			Form:       form,
			SmallRun:   field.SmallRun,
			Multiplier: field.Multiplier,
			Length:     field.Length(),
			Bits:       field.Bits(),
		}
		firstChunk += field.Length()
	}
	return parsed, records, nil
}
