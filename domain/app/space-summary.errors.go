package app

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFile      = errors.New("no file uploaded")
	ErrDecode      = errors.New("file is not a readable spreadsheet")
	ErrEmptyInput  = errors.New("spreadsheet has no non-empty rows")
	ErrNoValidRows = errors.New("no rows with a positive area and a usage value")
)

// Role is the part a column plays in the summary.
type Role string

const (
	RoleArea  Role = "area"
	RoleUsage Role = "usage"
)

// ColumnsNotDetectedError reports which roles had no keyword match, together with
// the column names that were available so the upload can be fixed.
type ColumnsNotDetectedError struct {
	Missing   []Role
	Available []string
}

func (e *ColumnsNotDetectedError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		missing[i] = string(r)
	}
	return fmt.Sprintf("could not detect %s column(s); available columns: [%s]",
		strings.Join(missing, ", "), strings.Join(e.Available, ", "))
}
