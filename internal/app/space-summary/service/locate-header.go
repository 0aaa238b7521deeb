package space_summary_service

import (
	"strings"

	"github.com/init-pkg/space-summary/domain/app"
)

// LocateHeader returns the index of the row with the most non-empty cells. Only a strictly
// higher count replaces the current best, so the earliest row wins ties. Blank rows never
// win, which makes the result independent of whether blank rows were stripped beforehand,
// and the index stays valid for a headed re-decode of the same bytes.
func LocateHeader(grid [][]string) (int, error) {
	best, bestCount := -1, 0
	for i, row := range grid {
		if cnt := nonEmptyInRow(row); cnt > bestCount {
			best, bestCount = i, cnt
		}
	}
	if best < 0 {
		return 0, app.ErrEmptyInput
	}
	return best, nil
}

func nonEmptyInRow(row []string) (cnt int) {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cnt++
		}
	}
	return
}

func isEmptyRow(row []string) bool {
	return nonEmptyInRow(row) == 0
}
