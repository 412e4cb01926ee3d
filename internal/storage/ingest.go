// ABOUTME: Spreadsheet ingestion into a declared table.
// ABOUTME: Projects and renames mapped columns, drops rows missing the required field, then appends or upserts.
package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/logger"
	"github.com/harperreed/gym/internal/spreadsheet"
)

// IngestResult reports what a Load did.
type IngestResult struct {
	RunID     uuid.UUID
	Read      int // data rows in the spreadsheet
	Dropped   int // rows with a null required field
	Attempted int
	Inserted  int
	Skipped   int // upsert conflicts left untouched
}

// Load reads the spreadsheet at path into table according to files.
//
// Append mode inserts the whole batch in one transaction and fails it on any
// constraint violation (the error wraps ErrConstraint). Upsert mode inserts row
// by row with ON CONFLICT DO NOTHING on the primary key, so replaying the same
// spreadsheet is harmless; conflicting rows are counted in Skipped.
func (d *DB) Load(path string, files config.FileSpec, table config.TableSpec) (*IngestResult, error) {
	res := &IngestResult{RunID: uuid.New()}

	mapping := table.SourceMapping()
	if len(mapping) == 0 {
		logger.Infof("ingest %s: table %s maps no spreadsheet columns, nothing to load", res.RunID, table.Name)
		return res, nil
	}

	targets := mapping.Targets()
	required := indexOf(targets, files.RequiredColumn)
	if required < 0 {
		return nil, fmt.Errorf("%w: required column %q has no source mapping in table %s",
			ErrConfig, files.RequiredColumn, table.Name)
	}

	var textIdx []int
	if files.Mode == config.ModeUpsert {
		for _, name := range files.TextColumns {
			i := indexOf(targets, name)
			if i < 0 {
				return nil, fmt.Errorf("%w: text column %q has no source mapping in table %s",
					ErrConfig, name, table.Name)
			}
			textIdx = append(textIdx, i)
		}
	}

	sheet, err := spreadsheet.Read(path, files.Sheet)
	if err != nil {
		return nil, err
	}
	rows, err := sheet.Project(mapping.Sources())
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", path, err)
	}
	res.Read = len(rows)

	kept := rows[:0]
	for _, row := range rows {
		if row[required] == nil {
			res.Dropped++
			continue
		}
		kept = append(kept, row)
	}
	rows = kept
	res.Attempted = len(rows)

	switch files.Mode {
	case config.ModeAppend:
		err = d.appendRows(table.Name, targets, rows)
		if err == nil {
			res.Inserted = len(rows)
		}
	case config.ModeUpsert:
		for _, row := range rows {
			for _, i := range textIdx {
				row[i] = spreadsheet.Text(row[i])
			}
		}
		res.Inserted, res.Skipped, err = d.upsertRows(table.Name, targets, table.PrimaryKeyColumns(), rows)
	default:
		return nil, fmt.Errorf("%w: unknown load mode %q", ErrConfig, files.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s into %s: %w", path, table.Name, err)
	}

	logger.Infof("ingest %s: %s -> %s (%s): read=%d dropped=%d inserted=%d skipped=%d",
		res.RunID, path, table.Name, files.Mode, res.Read, res.Dropped, res.Inserted, res.Skipped)
	return res, nil
}

// appendRows inserts every row in a single transaction.
func (d *DB) appendRows(table string, columns []string, rows [][]any) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		query, args, err := d.qb.Insert(table).Columns(columns...).Values(row...).ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return classify(err)
		}
	}
	return tx.Commit()
}

// upsertRows inserts row by row, skipping rows that conflict on pk.
func (d *DB) upsertRows(table string, columns, pk []string, rows [][]any) (inserted, skipped int, err error) {
	suffix := "ON CONFLICT DO NOTHING"
	if len(pk) > 0 {
		suffix = "ON CONFLICT(" + strings.Join(pk, ", ") + ") DO NOTHING"
	}

	for _, row := range rows {
		query, args, err := d.qb.Insert(table).Columns(columns...).Values(row...).Suffix(suffix).ToSql()
		if err != nil {
			return inserted, skipped, fmt.Errorf("build upsert: %w", err)
		}
		result, err := d.db.Exec(query, args...)
		if err != nil {
			return inserted, skipped, classify(err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return inserted, skipped, fmt.Errorf("upsert rows affected: %w", err)
		}
		if n == 0 {
			skipped++
		} else {
			inserted++
		}
	}
	return inserted, skipped, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
