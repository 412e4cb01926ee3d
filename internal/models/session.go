// ABOUTME: GymSession model and duration helpers.
// ABOUTME: Durations are stored as HH:MM:SS text, as exported by the spreadsheet.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Session is one visit to the gym.
type Session struct {
	Date     string `json:"date" yaml:"date"`
	Duration string `json:"duration" yaml:"duration"`
	GymName  string `json:"gym_name" yaml:"gym_name"`
	Category string `json:"category" yaml:"category"`
}

// Values maps the session onto its gym_sessions columns.
func (s Session) Values() map[string]any {
	return map[string]any{
		"date":     s.Date,
		"duration": s.Duration,
		"gym_name": s.GymName,
		"category": s.Category,
	}
}

// Validate checks the fields the manual-entry form requires.
func (s Session) Validate() error {
	if s.Duration == "" || s.GymName == "" || s.Category == "" {
		return fmt.Errorf("duration, gym name and category are required")
	}
	if s.Date != "" && !isDate(s.Date) {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s.Date)
	}
	if _, ok := ParseDuration(s.Duration); !ok {
		return fmt.Errorf("invalid duration %q (use HH:MM:SS)", s.Duration)
	}
	return nil
}

func isDate(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return false
		}
	}
	return true
}

// ParseDuration converts HH:MM:SS (seconds may be fractional) to seconds.
func ParseDuration(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	return float64(h*3600+m*60) + sec, true
}

// FormatDuration renders seconds as H:MM:SS, rounded to the second.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// CountRow is one group of a COUNT(*) aggregate.
type CountRow struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Frequency says how many weeks had a given number of sessions.
type Frequency struct {
	Sessions int `json:"sessions" yaml:"sessions"`
	Weeks    int `json:"weeks" yaml:"weeks"`
}

// SpanStats summarises the logged period.
// Rates are nil when the period is too short to divide by.
type SpanStats struct {
	Sessions    int      `json:"sessions"`
	TotalDays   float64  `json:"total_days"`
	LoggedDays  float64  `json:"logged_days"`
	TotalWeeks  float64  `json:"total_weeks"`
	TotalMonths float64  `json:"total_months"`
	TotalYears  float64  `json:"total_years"`
	PerWeek     *float64 `json:"avg_sessions_per_week,omitempty"`
	PerMonth    *float64 `json:"avg_sessions_per_month,omitempty"`
	PerYear     *float64 `json:"avg_sessions_per_year,omitempty"`
}
