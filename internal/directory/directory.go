package directory

import (
	"context"
	"strings"
)

// Column names of the contact directory.
const (
	ColumnName  = "Name"
	ColumnEmail = "Email"
	ColumnPhone = "Phone"
	ColumnRole  = "Role"
)

// Columns lists the searchable columns in canonical form.
func Columns() []string {
	return []string{ColumnName, ColumnEmail, ColumnPhone, ColumnRole}
}

// NormalizeColumn maps a column name in any casing to its canonical form.
// The second return value is false when the name is not a known column.
func NormalizeColumn(column string) (string, bool) {
	for _, c := range Columns() {
		if strings.EqualFold(strings.TrimSpace(column), c) {
			return c, true
		}
	}
	return "", false
}

// Record is one row of the contact directory. Records are immutable once
// read; directory mutation is out of scope.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// Field returns the value of the named column. The second return value is
// false for unknown columns.
func (r Record) Field(column string) (string, bool) {
	switch column {
	case ColumnName:
		return r.Name, true
	case ColumnEmail:
		return r.Email, true
	case ColumnPhone:
		return r.Phone, true
	case ColumnRole:
		return r.Role, true
	default:
		return "", false
	}
}

// Store reads the full contact directory. Implementations must not fabricate
// rows: an empty backing store yields an empty slice, never nil rows.
type Store interface {
	List(ctx context.Context) ([]Record, error)
}

// Filter returns the subset of records whose column matches value with an
// exact, case-insensitive comparison. It always returns a non-nil slice and
// never errors; unknown columns simply match nothing.
func Filter(records []Record, value, column string) []Record {
	selected := make([]Record, 0, len(records))
	for _, r := range records {
		v, ok := r.Field(column)
		if !ok {
			continue
		}
		if strings.EqualFold(v, value) {
			selected = append(selected, r)
		}
	}
	return selected
}
