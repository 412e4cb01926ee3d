// ABOUTME: Removes duplicate rows, keeping the earliest inserted one.
// ABOUTME: Equality is over a caller-chosen column subset; survivors have the lowest rowid.
package storage

import (
	"fmt"
	"strings"

	"github.com/harperreed/gym/internal/logger"
)

// Dedup deletes every row of table whose rowid is not the minimum among rows
// with equal values in subset. It returns the number of rows deleted.
func (d *DB) Dedup(table string, subset []string) (int64, error) {
	if len(subset) == 0 {
		return 0, fmt.Errorf("%w: dedup of %s needs at least one column", ErrConfig, table)
	}
	if err := checkIdentifiers(append([]string{table}, subset...)...); err != nil {
		return 0, err
	}

	keep := fmt.Sprintf("rowid NOT IN (SELECT MIN(rowid) FROM %s GROUP BY %s)",
		table, strings.Join(subset, ", "))
	query, args, err := d.qb.Delete(table).Where(keep).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build dedup: %w", err)
	}

	result, err := d.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("dedup %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("dedup %s: %w", table, err)
	}
	if n > 0 {
		logger.Infof("dedup %s: removed %d duplicate rows", table, n)
	}
	return n, nil
}
