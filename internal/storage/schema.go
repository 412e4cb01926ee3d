// ABOUTME: Builds and runs CREATE TABLE statements from table declarations.
// ABOUTME: Resolves inline AUTOINCREMENT versus table-level PRIMARY KEY clauses.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/logger"
)

// BuildCreateTable renders an idempotent CREATE TABLE statement for t.
//
// AUTOINCREMENT is only expressible on a single INTEGER PRIMARY KEY column, so it
// is honored only when the flagged column is the sole primary-key column. In any
// other arrangement the flag is dropped, primary-key membership is kept through a
// table-level clause, and a warning is returned.
func BuildCreateTable(t config.TableSpec) (string, []string) {
	var warnings []string
	defs := make([]string, len(t.Columns))
	var pkCols []string
	autoinc := -1

	for i, col := range t.Columns {
		def := col.Name + " " + col.Type
		if col.Flags.Has(config.NotNull) {
			def += " NOT NULL"
		}
		if col.Flags.Has(config.Unique) {
			def += " UNIQUE"
		}
		defs[i] = def

		if col.Flags.Has(config.PrimaryKey) {
			pkCols = append(pkCols, col.Name)
		}
		if col.Flags.Has(config.Autoincrement) {
			autoinc = i
		}
	}

	if autoinc >= 0 {
		col := t.Columns[autoinc]
		switch {
		case len(pkCols) == 1 && pkCols[0] == col.Name:
			defs[autoinc] = col.Name + " " + col.Type + " PRIMARY KEY AUTOINCREMENT"
			pkCols = nil
		case len(pkCols) > 1:
			warnings = append(warnings, fmt.Sprintf(
				"table %s: autoincrement on %s ignored because the primary key is composite (%s)",
				t.Name, col.Name, strings.Join(pkCols, ", ")))
		default:
			warnings = append(warnings, fmt.Sprintf(
				"table %s: autoincrement on %s ignored because it is not the primary key",
				t.Name, col.Name))
		}
	}

	if len(pkCols) > 0 {
		defs = append(defs, "PRIMARY KEY ("+strings.Join(pkCols, ", ")+")")
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", "))
	return stmt, warnings
}

// EnsureTables creates every declared table that does not exist yet.
// It returns the warnings recorded while building statements. Any failure is a
// configuration error and stops at the offending table.
func (d *DB) EnsureTables(tables []config.TableSpec) ([]string, error) {
	var all []string
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return all, fmt.Errorf("%w: %v", ErrConfig, err)
		}

		stmt, warnings := BuildCreateTable(t)
		for _, w := range warnings {
			logger.Warning(w)
		}
		all = append(all, warnings...)

		logger.Debugf("creating table %s: %s", t.Name, stmt)
		if _, err := d.db.Exec(stmt); err != nil {
			return all, fmt.Errorf("%w: create table %s: %v", ErrConfig, t.Name, err)
		}
	}
	return all, nil
}

// TableSQL returns the stored CREATE statement for a table, or "" if absent.
func (d *DB) TableSQL(name string) (string, error) {
	var stmt string
	err := d.db.QueryRow(
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&stmt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read schema for %s: %w", name, err)
	}
	return stmt, nil
}
