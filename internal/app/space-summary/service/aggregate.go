package space_summary_service

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/init-pkg/space-summary/domain/app"
)

var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Aggregation is the ordered summary plus the diagnostics reported with an upload.
type Aggregation struct {
	Records     []app.SummaryRecord
	AreaColumn  string
	UsageColumn string
	RowCount    int
	RowsDropped int
}

// parseArea coerces a cell to a number. ok is false for anything that is not a finite
// number; such cells disqualify their row rather than counting as zero.
func parseArea(s string) (v float64, ok bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if thousandsGrouped.MatchString(raw) {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Aggregate sums area per usage value over rows with a positive area and a non-empty
// usage. Groups are ordered by total descending; equal totals keep first-seen order.
func Aggregate(schema *Schema) (*Aggregation, error) {
	type group struct {
		name  string
		total float64
	}

	var (
		groups  []*group
		byName  = make(map[string]*group)
		kept    int
		rows    = schema.Table.Rows
		areaIdx = schema.AreaIndex
		useIdx  = schema.UsageIndex
	)
	for _, row := range rows {
		area, ok := parseArea(row[areaIdx])
		if !ok || area <= 0 {
			continue
		}
		usage := strings.TrimSpace(row[useIdx])
		if usage == "" {
			continue
		}

		g, found := byName[usage]
		if !found {
			g = &group{name: usage}
			byName[usage] = g
			groups = append(groups, g)
		}
		g.total += area
		kept++
	}

	if kept == 0 {
		return nil, app.ErrNoValidRows
	}

	slices.SortStableFunc(groups, func(a, b *group) int {
		return cmp.Compare(b.total, a.total)
	})

	records := make([]app.SummaryRecord, len(groups))
	for i, g := range groups {
		records[i] = app.SummaryRecord{Name: g.name, Value: g.total}
	}

	return &Aggregation{
		Records:     records,
		AreaColumn:  schema.AreaColumn(),
		UsageColumn: schema.UsageColumn(),
		RowCount:    kept,
		RowsDropped: len(rows) - kept,
	}, nil
}
