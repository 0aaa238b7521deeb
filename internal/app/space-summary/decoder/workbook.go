package decoder

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// mergedRange is a merged block in 0-based grid coordinates, inclusive on both ends.
type mergedRange struct {
	r1, c1, r2, c2 int
	value          string
}

// readWorkbook returns the first sheet as a rectangular grid of trimmed raw cell values
// plus its merged ranges. Raw values keep numbers unformatted ("1200" rather than "1,200.00").
func readWorkbook(file []byte) ([][]string, []mergedRange, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	grid, err := getGrid(f, sheets[0])
	if err != nil {
		return nil, nil, err
	}
	merges, err := getMergedRanges(f, sheets[0])
	if err != nil {
		return nil, nil, err
	}
	return grid, merges, nil
}

func getGrid(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	maxCol := maxWidth(rows)
	grid := make([][]string, len(rows))
	for i := range grid {
		grid[i] = pad(trimRow(rows[i]), maxCol)
	}
	return grid, nil
}

func getMergedRanges(f *excelize.File, sheet string) ([]mergedRange, error) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}

	out := make([]mergedRange, 0, len(merges))
	for _, merge := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			continue
		}
		out = append(out, mergedRange{
			r1: startRow - 1, c1: startCol - 1,
			r2: endRow - 1, c2: endCol - 1,
			value: strings.TrimSpace(merge.GetCellValue()),
		})
	}
	return out, nil
}

// fillMerged copies each merged value into the cells of its range, but only for rows at
// or after fromRow. Rows above stay as stored so titles and headers keep one cell each.
func fillMerged(grid [][]string, merges []mergedRange, fromRow int) {
	for _, m := range merges {
		for r := max(m.r1, fromRow); r <= m.r2 && r < len(grid); r++ {
			for c := m.c1; c <= m.c2 && c < len(grid[r]); c++ {
				grid[r][c] = m.value
			}
		}
	}
}
