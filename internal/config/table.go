// ABOUTME: Typed table and column declarations read from configuration.
// ABOUTME: Validated once at load; immutable afterwards.

package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Flags is the set of constraints declared on a column.
type Flags uint8

const (
	PrimaryKey Flags = 1 << iota
	Autoincrement
	NotNull
	Unique
)

// Has reports whether every bit of x is set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// LoadMode selects how spreadsheet rows reach the table.
type LoadMode string

const (
	ModeAppend LoadMode = "append"
	ModeUpsert LoadMode = "upsert"
)

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	typeRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ ]*(\(\s*\d+\s*(,\s*\d+\s*)?\))?$`)
)

// IsIdentifier reports whether s can be used unquoted as a table or column name.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// ColumnSpec declares one column.
type ColumnSpec struct {
	Name  string
	Type  string
	Flags Flags

	// Source is the spreadsheet header this column is loaded from, if any.
	Source string
}

// TableSpec declares a table and its columns in order.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// Mapping pairs a spreadsheet header with its target column.
type Mapping struct {
	Source string
	Target string
}

// Mappings is an ordered source-to-target list.
type Mappings []Mapping

// HasTarget reports whether a target column is mapped.
func (m Mappings) HasTarget(name string) bool {
	for _, p := range m {
		if p.Target == name {
			return true
		}
	}
	return false
}

// Sources returns the source headers in mapping order.
func (m Mappings) Sources() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Source
	}
	return out
}

// Targets returns the target columns in mapping order.
func (m Mappings) Targets() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Target
	}
	return out
}

// Validate checks names, types, and the autoincrement restrictions.
func (t TableSpec) Validate() error {
	if !IsIdentifier(t.Name) {
		return fmt.Errorf("%w: bad table name %q", ErrInvalid, t.Name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table %q has no columns", ErrInvalid, t.Name)
	}

	names := make(map[string]bool, len(t.Columns))
	autoinc := 0
	for _, col := range t.Columns {
		if !IsIdentifier(col.Name) {
			return fmt.Errorf("%w: table %q: bad column name %q", ErrInvalid, t.Name, col.Name)
		}
		if names[col.Name] {
			return fmt.Errorf("%w: table %q: column %q declared twice", ErrInvalid, t.Name, col.Name)
		}
		names[col.Name] = true

		if !typeRe.MatchString(col.Type) {
			return fmt.Errorf("%w: table %q: column %q has bad type %q", ErrInvalid, t.Name, col.Name, col.Type)
		}
		if col.Flags.Has(Autoincrement) {
			autoinc++
			if !strings.EqualFold(col.Type, "integer") {
				return fmt.Errorf("%w: table %q: autoincrement column %q must be integer", ErrInvalid, t.Name, col.Name)
			}
		}
	}
	if autoinc > 1 {
		return fmt.Errorf("%w: table %q: at most one autoincrement column allowed", ErrInvalid, t.Name)
	}
	return nil
}

// Column looks up a column by name.
func (t TableSpec) Column(name string) (ColumnSpec, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnSpec{}, false
}

// ColumnNames returns the column names in declaration order.
func (t TableSpec) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = col.Name
	}
	return out
}

// PrimaryKeyColumns returns the primary-key columns in declaration order.
func (t TableSpec) PrimaryKeyColumns() []string {
	var out []string
	for _, col := range t.Columns {
		if col.Flags.Has(PrimaryKey) {
			out = append(out, col.Name)
		}
	}
	return out
}

// AutoincrementColumn returns the column flagged autoincrement, or "".
func (t TableSpec) AutoincrementColumn() string {
	for _, col := range t.Columns {
		if col.Flags.Has(Autoincrement) {
			return col.Name
		}
	}
	return ""
}

// SourceMapping returns the columns that declare a spreadsheet source.
func (t TableSpec) SourceMapping() Mappings {
	var out Mappings
	for _, col := range t.Columns {
		if col.Source != "" {
			out = append(out, Mapping{Source: col.Source, Target: col.Name})
		}
	}
	return out
}
