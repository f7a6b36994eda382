package sourcemap

// Base64 VLQ encoding, as fixed by the Source Map v3 spec: each value's sign
// becomes its least-significant bit, then the magnitude is chunked into
// 5-bit groups (a 6th "continuation" bit marks all but the last group) and
// each group is rendered as one base64 digit.
const (
	vlqBaseShift       = 5
	vlqBase            = 1 << vlqBaseShift // 32
	vlqBaseMask        = vlqBase - 1       // 31
	vlqContinuationBit = vlqBase           // 32
)

var base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ encodes a single signed integer as a base64 VLQ string.
func encodeVLQ(value int) string {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	var encoded []byte
	for {
		digit := vlq & vlqBaseMask
		vlq >>= vlqBaseShift
		if vlq > 0 {
			digit |= vlqContinuationBit
		}
		encoded = append(encoded, base64Chars[digit])
		if vlq == 0 {
			break
		}
	}
	return string(encoded)
}

// vlqState tracks the five running totals a "mappings" string's segments are
// delta-encoded against: generated column resets every line, the rest
// persist across the whole file (Source Map v3 §mappings).
type vlqState struct {
	genLine     int
	genColumn   int
	sourceIndex int
	sourceLine  int
	sourceColumn int
	nameIndex   int
}

// encodeSegment renders one mapping against the running state, returning the
// VLQ segment and leaving state updated for the next call. The source file
// index is always 0 (spec.md §6: one generated file per source file), and
// the name field is only emitted when the mapping names an identifier,
// looked up in namesIndex (the positions in the map's "names" array).
func (st *vlqState) encodeSegment(m Mapping, namesIndex map[string]int) string {
	values := []int{
		m.GenColumn - 1 - st.genColumn,
		0 - st.sourceIndex,
		m.SourceLine - 1 - st.sourceLine,
		m.SourceColumn - 1 - st.sourceColumn,
	}
	st.genColumn = m.GenColumn - 1
	st.sourceIndex = 0
	st.sourceLine = m.SourceLine - 1
	st.sourceColumn = m.SourceColumn - 1

	if m.Name != "" {
		if idx, ok := namesIndex[m.Name]; ok {
			values = append(values, idx-st.nameIndex)
			st.nameIndex = idx
		}
	}

	var b []byte
	for _, v := range values {
		b = append(b, encodeVLQ(v)...)
	}
	return string(b)
}

// generateVLQMappings renders the full "mappings" field: ';' separates
// generated lines, ',' separates segments on the same line, and each
// mapping's name (if any) is resolved against namesIndex into the optional
// 5th VLQ field.
func generateVLQMappings(mappings []Mapping, namesIndex map[string]int) string {
	if len(mappings) == 0 {
		return ""
	}

	var result []byte
	st := &vlqState{}

	for _, m := range mappings {
		for st.genLine < m.GenLine-1 {
			result = append(result, ';')
			st.genLine++
			st.genColumn = 0
		}

		if st.genLine == m.GenLine-1 && len(result) > 0 && result[len(result)-1] != ';' {
			result = append(result, ',')
		}

		result = append(result, st.encodeSegment(m, namesIndex)...)
	}

	return string(result)
}
