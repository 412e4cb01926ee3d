// ABOUTME: Single-row inserts generated from a table declaration.
// ABOUTME: Constraint violations are reported as a false result, not an error.
package storage

import (
	"fmt"

	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/logger"
)

// InsertRow inserts one row into table. Columns are emitted in declaration
// order, so the statement always matches the declared shape. A uniqueness,
// primary-key, or not-null violation returns (false, nil) and leaves the table
// unchanged; any other failure is returned as an error.
func (d *DB) InsertRow(table config.TableSpec, values map[string]any) (bool, error) {
	if len(values) == 0 {
		return false, fmt.Errorf("%w: insert into %s with no values", ErrConfig, table.Name)
	}
	for name := range values {
		if _, ok := table.Column(name); !ok {
			return false, fmt.Errorf("%w: table %s has no column %q", ErrConfig, table.Name, name)
		}
	}

	var columns []string
	var args []any
	for _, col := range table.Columns {
		if v, ok := values[col.Name]; ok {
			columns = append(columns, col.Name)
			args = append(args, v)
		}
	}

	query, qargs, err := d.qb.Insert(table.Name).Columns(columns...).Values(args...).ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}
	if _, err := d.db.Exec(query, qargs...); err != nil {
		if isConstraint(err) {
			logger.Warningf("insert into %s rejected: %v", table.Name, err)
			return false, nil
		}
		return false, fmt.Errorf("insert into %s: %w", table.Name, err)
	}
	return true, nil
}

// CountRows returns the number of rows in table.
func (d *DB) CountRows(table string) (int, error) {
	if err := checkIdentifiers(table); err != nil {
		return 0, err
	}
	query, args, err := d.qb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := d.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
