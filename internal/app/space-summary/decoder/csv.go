package decoder

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	delimiters = []rune{',', ';', '\t'}
)

const sniffLines = 10

func readCSV(file []byte) ([][]string, error) {
	file = bytes.TrimPrefix(file, utf8BOM)

	r := csv.NewReader(bytes.NewReader(file))
	r.Comma = sniffDelimiter(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, trimRow(rec))
	}

	w := maxWidth(rows)
	for i := range rows {
		rows[i] = pad(rows[i], w)
	}
	return rows, nil
}

// sniffDelimiter picks whichever of ',', ';' and '\t' occurs most often over the first
// sniffLines non-blank lines, so title or blank lines above the header do not decide it.
func sniffDelimiter(file []byte) rune {
	counts := map[rune]int{}
	seen := 0
	for _, line := range bytes.Split(file, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		for _, d := range delimiters {
			counts[d] += bytes.Count(line, []byte(string(d)))
		}
		if seen++; seen == sniffLines {
			break
		}
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// looksLikeText accepts valid UTF-8 without NUL bytes in the first 4KB.
func looksLikeText(file []byte) bool {
	head := file
	if len(head) > 4096 {
		head = head[:4096]
		// do not split a multi-byte rune at the cut
		for i := 0; i < utf8.UTFMax && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}
	return utf8.Valid(head) && bytes.IndexByte(head, 0) < 0
}
