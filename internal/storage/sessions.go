// ABOUTME: Gym session entry, listing, and deletion.
// ABOUTME: Manual inserts are followed by a dedup pass over the business key.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/models"
)

var sessionColumns = []string{"date", "duration", "gym_name", "category"}

// AddSession inserts a manually entered session, then removes any duplicate
// the insert created according to subset. It reports whether the row was accepted.
func (d *DB) AddSession(table config.TableSpec, s models.Session, subset []string) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}

	ok, err := d.InsertRow(table, s.Values())
	if err != nil || !ok {
		return ok, err
	}

	if _, err := d.Dedup(table.Name, subset); err != nil {
		return true, fmt.Errorf("dedup after insert: %w", err)
	}
	return true, nil
}

// ListSessions returns sessions, most recent date first. limit <= 0 means all.
func (d *DB) ListSessions(table string, limit int) ([]models.Session, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	q := d.qb.Select(sessionColumns...).From(table).OrderBy("date DESC", "rowid DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return d.querySessions(q)
}

// SessionsOn returns the sessions logged on date.
func (d *DB) SessionsOn(table, date string) ([]models.Session, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	q := d.qb.Select(sessionColumns...).From(table).Where(squirrel.Eq{"date": date}).OrderBy("rowid")
	return d.querySessions(q)
}

func (d *DB) querySessions(q squirrel.SelectBuilder) ([]models.Session, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session query: %w", err)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var date, duration, gym, category sql.NullString
		if err := rows.Scan(&date, &duration, &gym, &category); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, models.Session{
			Date:     date.String,
			Duration: duration.String,
			GymName:  gym.String,
			Category: category.String,
		})
	}
	return sessions, rows.Err()
}

// SessionDates returns the distinct non-null dates, ascending.
func (d *DB) SessionDates(table string) ([]string, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	query, args, err := d.qb.Select("DISTINCT date").From(table).
		Where("date IS NOT NULL").OrderBy("date").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build date query: %w", err)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// DeleteSessionsByDate removes every session on date and returns how many went.
func (d *DB) DeleteSessionsByDate(table, date string) (int64, error) {
	if err := checkIdentifiers(table); err != nil {
		return 0, err
	}
	query, args, err := d.qb.Delete(table).Where(squirrel.Eq{"date": date}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	result, err := d.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return result.RowsAffected()
}
