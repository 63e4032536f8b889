package booksettings

import (
	"strconv"
	"strings"
)

// widthsKey is the per-book cache key holding the encoded chapter-width
// vector: a decimal count followed by that many decimal numbers, separated
// by spaces.
const widthsKey = "doc_widths"

// encodeWidths renders widths as "<count> w0 w1 w2 ...".
func encodeWidths(widths []uint32) string {
	parts := make([]string, 0, len(widths)+1)
	parts = append(parts, strconv.Itoa(len(widths)))
	for _, w := range widths {
		parts = append(parts, strconv.FormatUint(uint64(w), 10))
	}
	return strings.Join(parts, " ")
}

// decodeWidths parses the format produced by encodeWidths. It returns
// (nil, false) for anything that doesn't round-trip: a malformed count, a
// non-numeric entry, or a count that disagrees with the number of values
// present.
func decodeWidths(s string) ([]uint32, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, false
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 || len(fields)-1 != count {
		return nil, false
	}

	widths := make([]uint32, count)
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, false
		}
		widths[i] = uint32(v)
	}
	return widths, true
}
