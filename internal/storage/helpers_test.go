// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides isolated databases, table declarations, and spreadsheet fixtures.
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/gym/internal/config"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gym.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// upsertSessions has a composite business key, as loaded in upsert mode.
func upsertSessions() config.TableSpec {
	return config.TableSpec{
		Name: "gym_sessions",
		Columns: []config.ColumnSpec{
			{Name: "date", Type: "text", Flags: config.PrimaryKey | config.NotNull, Source: "Date"},
			{Name: "duration", Type: "text", Source: "Duration"},
			{Name: "gym_name", Type: "text", Flags: config.PrimaryKey, Source: "Gym"},
			{Name: "category", Type: "text", Source: "Category"},
		},
	}
}

// appendSessions has only a surrogate key, as loaded in append mode.
func appendSessions() config.TableSpec {
	return config.TableSpec{
		Name: "gym_sessions",
		Columns: []config.ColumnSpec{
			{Name: "id", Type: "integer", Flags: config.PrimaryKey | config.Autoincrement},
			{Name: "date", Type: "text", Source: "Date"},
			{Name: "duration", Type: "text", Source: "Duration"},
			{Name: "gym_name", Type: "text", Source: "Gym"},
			{Name: "category", Type: "text", Source: "Category"},
		},
	}
}

func usersTable() config.TableSpec {
	return config.TableSpec{
		Name: UsersTable,
		Columns: []config.ColumnSpec{
			{Name: "id", Type: "integer", Flags: config.PrimaryKey | config.Autoincrement},
			{Name: "username", Type: "text", Flags: config.NotNull | config.Unique},
			{Name: "password_hash", Type: "text", Flags: config.NotNull},
		},
	}
}

var businessKey = []string{"date", "duration", "gym_name", "category"}

func ensureTables(t *testing.T, db *DB, tables ...config.TableSpec) {
	t.Helper()
	if _, err := db.EnsureTables(tables); err != nil {
		t.Fatalf("EnsureTables failed: %v", err)
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gym.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	n, err := db.CountRows(table)
	if err != nil {
		t.Fatalf("CountRows failed: %v", err)
	}
	return n
}
