package space_summary_service

import (
	"regexp"
	"slices"
	"strings"

	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/app/space-summary/decoder"
)

// RoleRule assigns Role to the first column whose normalized name contains any keyword.
type RoleRule struct {
	Role     app.Role
	Keywords []string
}

// DefaultRoleRules are evaluated in order; a column taken by an earlier rule is not
// offered to a later one.
var DefaultRoleRules = []RoleRule{
	{Role: app.RoleArea, Keywords: []string{"area", "sq ft", "sqft", "square", "size", "gsf", "nsf"}},
	{Role: app.RoleUsage, Keywords: []string{"use", "usage", "type", "class", "room name", "dept", "department", "space"}},
}

// placeholderName matches the decoder's "Unnamed: N" marker for blank header cells,
// after normalization and with an optional duplicate suffix.
var placeholderName = regexp.MustCompile(`^unnamed: \d+(\.\d+)?$`)

// Table is a decoded sheet with normalized column names and no placeholder columns or
// blank rows. Rows are aligned with Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Schema is a Table plus the columns chosen for the area and usage roles.
type Schema struct {
	Table      *Table
	AreaIndex  int
	UsageIndex int
}

func (s *Schema) AreaColumn() string  { return s.Table.Columns[s.AreaIndex] }
func (s *Schema) UsageColumn() string { return s.Table.Columns[s.UsageIndex] }

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isPlaceholder(name string) bool {
	return name == "" || placeholderName.MatchString(name)
}

// NormalizeTable lower-cases and trims column names, drops placeholder columns and drops
// rows that are empty across the remaining columns.
func NormalizeTable(sheet *decoder.Sheet) *Table {
	keep := make([]int, 0, len(sheet.Header))
	table := &Table{Columns: make([]string, 0, len(sheet.Header))}
	for i, h := range sheet.Header {
		name := normalizeHeader(h)
		if isPlaceholder(name) {
			continue
		}
		keep = append(keep, i)
		table.Columns = append(table.Columns, name)
	}

	for _, row := range sheet.Rows {
		out := make([]string, len(keep))
		for j, i := range keep {
			if i < len(row) {
				out[j] = row[i]
			}
		}
		if isEmptyRow(out) {
			continue
		}
		table.Rows = append(table.Rows, out)
	}

	return table
}

// InferSchema normalizes sheet and assigns the area and usage roles using DefaultRoleRules.
func InferSchema(sheet *decoder.Sheet) (*Schema, error) {
	return InferSchemaWithRules(sheet, DefaultRoleRules)
}

func InferSchemaWithRules(sheet *decoder.Sheet, rules []RoleRule) (*Schema, error) {
	table := NormalizeTable(sheet)

	assigned := make(map[app.Role]int, len(rules))
	taken := make(map[int]bool, len(rules))
	var missing []app.Role
	for _, rule := range rules {
		idx := matchColumn(table.Columns, rule.Keywords, taken)
		if idx < 0 {
			missing = append(missing, rule.Role)
			continue
		}
		assigned[rule.Role] = idx
		taken[idx] = true
	}

	for _, role := range []app.Role{app.RoleArea, app.RoleUsage} {
		if _, ok := assigned[role]; !ok && !slices.Contains(missing, role) {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		available := make([]string, len(table.Columns))
		copy(available, table.Columns)
		return nil, &app.ColumnsNotDetectedError{Missing: missing, Available: available}
	}

	return &Schema{
		Table:      table,
		AreaIndex:  assigned[app.RoleArea],
		UsageIndex: assigned[app.RoleUsage],
	}, nil
}

func matchColumn(columns []string, keywords []string, taken map[int]bool) int {
	for i, name := range columns {
		if taken[i] {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return i
			}
		}
	}
	return -1
}
