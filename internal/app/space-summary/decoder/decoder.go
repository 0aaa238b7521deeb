// Package decoder turns uploaded spreadsheet bytes into a grid of trimmed string cells.
//
// The same bytes are decoded twice during an upload: once with NoHeader to scan the raw
// grid, and once with the located header row to obtain named columns.
package decoder

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/init-pkg/space-summary/domain/app"
)

// NoHeader makes Decode treat every row as data.
const NoHeader = -1

// Format is the detected container format of an upload.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Sheet is a decoded table. Header is nil for an unheaded decode; otherwise it holds one
// name per column and every row in Rows has the same width as Header.
type Sheet struct {
	Format Format
	Header []string
	Rows   [][]string
}

type Options struct {
	// FillMergedCells copies the top-left value of a merged range into every data cell of
	// the range. Only rows below the header are filled; an unheaded decode is never filled.
	FillMergedCells bool
}

type Decoder interface {
	Decode(file []byte, headerRow int) (*Sheet, error)
}

type SpreadsheetDecoder struct {
	opts Options
}

var _ Decoder = &SpreadsheetDecoder{}

func New(opts Options) *SpreadsheetDecoder {
	return &SpreadsheetDecoder{opts: opts}
}

// Decode reads the first sheet of file. With headerRow >= 0 the row at that index supplies
// column names and only the rows after it are returned as data.
func (d *SpreadsheetDecoder) Decode(file []byte, headerRow int) (*Sheet, error) {
	if len(file) == 0 {
		return nil, fmt.Errorf("%w: empty file", app.ErrDecode)
	}

	format := Sniff(file)

	var (
		grid   [][]string
		merges []mergedRange
		err    error
	)
	switch format {
	case FormatXLSX:
		grid, merges, err = readWorkbook(file)
	case FormatCSV:
		grid, err = readCSV(file)
	case FormatXLS:
		err = fmt.Errorf("legacy .xls workbooks are not supported, save the file as .xlsx")
	default:
		err = fmt.Errorf("unrecognized file format")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app.ErrDecode, err)
	}

	sheet := &Sheet{Format: format}
	if headerRow == NoHeader {
		sheet.Rows = grid
		return sheet, nil
	}
	if headerRow < 0 || headerRow >= len(grid) {
		return nil, fmt.Errorf("%w: header row %d out of range (%d rows)", app.ErrDecode, headerRow, len(grid))
	}

	if d.opts.FillMergedCells {
		fillMerged(grid, merges, headerRow+1)
	}

	width := maxWidth(grid[headerRow:])
	sheet.Header = columnNames(grid[headerRow], width)
	sheet.Rows = make([][]string, 0, len(grid)-headerRow-1)
	for _, row := range grid[headerRow+1:] {
		sheet.Rows = append(sheet.Rows, pad(row, width))
	}
	return sheet, nil
}

// Sniff guesses the container format from the leading bytes.
func Sniff(file []byte) Format {
	switch {
	case bytes.HasPrefix(file, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(file, oleMagic):
		return FormatXLS
	case looksLikeText(file):
		return FormatCSV
	default:
		return ""
	}
}

// columnNames names blank header cells "Unnamed: N" and suffixes repeated names with
// ".1", ".2", ... so every column has a distinct name.
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			candidate := name + "." + strconv.Itoa(n+1)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				seen[name]++
				candidate = name + "." + strconv.Itoa(seen[name])
			}
			name = candidate
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
