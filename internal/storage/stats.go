// ABOUTME: Descriptive statistics over gym sessions.
// ABOUTME: Counts by category, gym, month and week, average duration, and span rates.
package storage

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/harperreed/gym/internal/models"
)

// SessionsByCategory counts sessions per category, busiest first.
func (d *DB) SessionsByCategory(table string) ([]models.CountRow, error) {
	return d.countBy(table, "category")
}

// SessionsByGym counts sessions per gym, busiest first.
func (d *DB) SessionsByGym(table string) ([]models.CountRow, error) {
	return d.countBy(table, "gym_name")
}

func (d *DB) countBy(table, column string) ([]models.CountRow, error) {
	if err := checkIdentifiers(table, column); err != nil {
		return nil, err
	}
	q := d.qb.Select(column, "COUNT(*) AS session_count").From(table).
		GroupBy(column).OrderBy("session_count DESC", column)
	return d.queryCounts(q)
}

// SessionsByMonth counts sessions per YYYY-MM, chronologically.
func (d *DB) SessionsByMonth(table string) ([]models.CountRow, error) {
	return d.countByPeriod(table, "%Y-%m")
}

// SessionsByWeek counts sessions per YYYY-WW (Monday-based weeks).
func (d *DB) SessionsByWeek(table string) ([]models.CountRow, error) {
	return d.countByPeriod(table, "%Y-%W")
}

func (d *DB) countByPeriod(table, format string) ([]models.CountRow, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	period := fmt.Sprintf("strftime('%s', date)", format)
	q := d.qb.Select(period+" AS period", "COUNT(*) AS session_count").From(table).
		Where(period + " IS NOT NULL").GroupBy("period").OrderBy("period")
	return d.queryCounts(q)
}

func (d *DB) queryCounts(q squirrel.SelectBuilder) ([]models.CountRow, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	defer rows.Close()

	var out []models.CountRow
	for rows.Next() {
		var label sql.NullString
		var r models.CountRow
		if err := rows.Scan(&label, &r.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		r.Label = label.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// BusiestMonths returns the months sharing the highest session count.
func (d *DB) BusiestMonths(table string) ([]models.CountRow, error) {
	months, err := d.SessionsByMonth(table)
	if err != nil {
		return nil, err
	}
	best := 0
	for _, m := range months {
		if m.Count > best {
			best = m.Count
		}
	}
	var out []models.CountRow
	for _, m := range months {
		if m.Count == best {
			out = append(out, m)
		}
	}
	return out, nil
}

// WeeklyFrequency reports how many weeks had each session count.
func (d *DB) WeeklyFrequency(table string) ([]models.Frequency, error) {
	weeks, err := d.SessionsByWeek(table)
	if err != nil {
		return nil, err
	}
	hist := make(map[int]int)
	for _, w := range weeks {
		hist[w.Count]++
	}
	out := make([]models.Frequency, 0, len(hist))
	for sessions, n := range hist {
		out = append(out, models.Frequency{Sessions: sessions, Weeks: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sessions < out[j].Sessions })
	return out, nil
}

// AverageDuration returns the mean of all parseable durations as H:MM:SS.
// ok is false when no duration could be parsed.
func (d *DB) AverageDuration(table string) (avg string, ok bool, err error) {
	if err := checkIdentifiers(table); err != nil {
		return "", false, err
	}
	query, args, err := d.qb.Select("duration").From(table).Where("duration IS NOT NULL").ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build duration query: %w", err)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return "", false, fmt.Errorf("list durations: %w", err)
	}
	defer rows.Close()

	var total float64
	var n int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return "", false, fmt.Errorf("scan duration: %w", err)
		}
		if secs, ok := models.ParseDuration(raw); ok {
			total += secs
			n++
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}
	if n == 0 {
		return "", false, nil
	}
	return models.FormatDuration(total / float64(n)), true, nil
}

// Span summarises the logged period relative to now.
func (d *DB) Span(table string, now time.Time) (models.SpanStats, error) {
	var st models.SpanStats
	if err := checkIdentifiers(table); err != nil {
		return st, err
	}
	query, args, err := d.qb.Select("MIN(NULLIF(date, ''))", "MAX(NULLIF(date, ''))", "COUNT(*)").From(table).ToSql()
	if err != nil {
		return st, fmt.Errorf("build span query: %w", err)
	}
	var first, last sql.NullString
	if err := d.db.QueryRow(query, args...).Scan(&first, &last, &st.Sessions); err != nil {
		return st, fmt.Errorf("span: %w", err)
	}
	if !first.Valid || !last.Valid {
		return st, nil
	}

	start, err := parseDay(first.String)
	if err != nil {
		return st, err
	}
	end, err := parseDay(last.String)
	if err != nil {
		return st, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	st.TotalDays = days(today.Sub(start))
	st.LoggedDays = days(end.Sub(start))
	st.TotalWeeks = math.Round(st.LoggedDays / 7)
	st.TotalMonths = math.Round(st.LoggedDays / 30)
	st.TotalYears = math.Round(st.LoggedDays / 365)
	st.PerWeek = rate(st.Sessions, st.TotalWeeks)
	st.PerMonth = rate(st.Sessions, st.TotalMonths)
	st.PerYear = rate(st.Sessions, st.TotalYears)
	return st, nil
}

func parseDay(s string) (time.Time, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session date %q: %w", s, err)
	}
	return t, nil
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}

func rate(n int, over float64) *float64 {
	if over == 0 {
		return nil
	}
	r := float64(n) / over
	return &r
}
