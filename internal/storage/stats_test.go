// ABOUTME: Tests for session statistics.
package storage

import (
	"testing"
	"time"

	"github.com/harperreed/gym/internal/models"
)

func seedStats(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	ensureTables(t, db, appendSessions())
	addSessions(t, db,
		models.Session{Date: "2024-01-01", Duration: "1:00:00", GymName: "Downtown", Category: "Strength"},
		models.Session{Date: "2024-01-02", Duration: "0:30:00", GymName: "Downtown", Category: "Cardio"},
		models.Session{Date: "2024-01-10", Duration: "1:30:00", GymName: "Uptown", Category: "Strength"},
		models.Session{Date: "2024-02-05", Duration: "1:00:00", GymName: "Downtown", Category: "Strength"},
	)
	return db
}

func assertCounts(t *testing.T, got []models.CountRow, want []models.CountRow) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCountStats(t *testing.T) {
	db := seedStats(t)

	byCategory, err := db.SessionsByCategory("gym_sessions")
	if err != nil {
		t.Fatalf("SessionsByCategory failed: %v", err)
	}
	assertCounts(t, byCategory, []models.CountRow{{Label: "Strength", Count: 3}, {Label: "Cardio", Count: 1}})

	byGym, err := db.SessionsByGym("gym_sessions")
	if err != nil {
		t.Fatalf("SessionsByGym failed: %v", err)
	}
	assertCounts(t, byGym, []models.CountRow{{Label: "Downtown", Count: 3}, {Label: "Uptown", Count: 1}})

	byMonth, err := db.SessionsByMonth("gym_sessions")
	if err != nil {
		t.Fatalf("SessionsByMonth failed: %v", err)
	}
	assertCounts(t, byMonth, []models.CountRow{{Label: "2024-01", Count: 3}, {Label: "2024-02", Count: 1}})

	busiest, err := db.BusiestMonths("gym_sessions")
	if err != nil {
		t.Fatalf("BusiestMonths failed: %v", err)
	}
	assertCounts(t, busiest, []models.CountRow{{Label: "2024-01", Count: 3}})
}

func TestWeeklyFrequency(t *testing.T) {
	db := seedStats(t)

	weeks, err := db.SessionsByWeek("gym_sessions")
	if err != nil {
		t.Fatalf("SessionsByWeek failed: %v", err)
	}
	assertCounts(t, weeks, []models.CountRow{
		{Label: "2024-01", Count: 2},
		{Label: "2024-02", Count: 1},
		{Label: "2024-06", Count: 1},
	})

	freq, err := db.WeeklyFrequency("gym_sessions")
	if err != nil {
		t.Fatalf("WeeklyFrequency failed: %v", err)
	}
	want := []models.Frequency{{Sessions: 1, Weeks: 2}, {Sessions: 2, Weeks: 1}}
	if len(freq) != len(want) || freq[0] != want[0] || freq[1] != want[1] {
		t.Errorf("WeeklyFrequency = %+v, want %+v", freq, want)
	}
}

func TestAverageDuration(t *testing.T) {
	db := seedStats(t)
	avg, ok, err := db.AverageDuration("gym_sessions")
	if err != nil {
		t.Fatalf("AverageDuration failed: %v", err)
	}
	if !ok || avg != "1:00:00" {
		t.Errorf("AverageDuration = %q, %v; want 1:00:00, true", avg, ok)
	}

	empty := setupTestDB(t)
	ensureTables(t, empty, appendSessions())
	if _, ok, err := empty.AverageDuration("gym_sessions"); err != nil || ok {
		t.Errorf("empty AverageDuration = %v, %v; want false, nil", ok, err)
	}
}

func TestSpan(t *testing.T) {
	db := seedStats(t)
	now := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

	st, err := db.Span("gym_sessions", now)
	if err != nil {
		t.Fatalf("Span failed: %v", err)
	}
	if st.Sessions != 4 {
		t.Errorf("Sessions = %d, want 4", st.Sessions)
	}
	if st.TotalDays != 60 {
		t.Errorf("TotalDays = %v, want 60", st.TotalDays)
	}
	if st.LoggedDays != 35 {
		t.Errorf("LoggedDays = %v, want 35", st.LoggedDays)
	}
	if st.TotalWeeks != 5 || st.TotalMonths != 1 || st.TotalYears != 0 {
		t.Errorf("weeks/months/years = %v/%v/%v, want 5/1/0", st.TotalWeeks, st.TotalMonths, st.TotalYears)
	}
	if st.PerWeek == nil || *st.PerWeek != 0.8 {
		t.Errorf("PerWeek = %v, want 0.8", st.PerWeek)
	}
	if st.PerMonth == nil || *st.PerMonth != 4 {
		t.Errorf("PerMonth = %v, want 4", st.PerMonth)
	}
	if st.PerYear != nil {
		t.Errorf("PerYear = %v, want nil for a span under half a year", *st.PerYear)
	}
}

func TestSpanEmpty(t *testing.T) {
	db := setupTestDB(t)
	ensureTables(t, db, appendSessions())
	st, err := db.Span("gym_sessions", time.Now())
	if err != nil {
		t.Fatalf("Span failed: %v", err)
	}
	if st.Sessions != 0 || st.PerWeek != nil {
		t.Errorf("expected zero span, got %+v", st)
	}
}
