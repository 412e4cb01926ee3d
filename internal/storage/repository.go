// ABOUTME: Repository interface for gym session storage.
// ABOUTME: The contract the MCP server and other surfaces depend on.
package storage

import (
	"time"

	"github.com/harperreed/gym/internal/config"
	"github.com/harperreed/gym/internal/models"
)

// Repository defines the session operations surfaces may call.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Session operations
	AddSession(table config.TableSpec, s models.Session, subset []string) (bool, error)
	ListSessions(table string, limit int) ([]models.Session, error)
	SessionsOn(table, date string) ([]models.Session, error)
	DeleteSessionsByDate(table, date string) (int64, error)

	// Statistics
	SessionsByCategory(table string) ([]models.CountRow, error)
	SessionsByGym(table string) ([]models.CountRow, error)
	SessionsByMonth(table string) ([]models.CountRow, error)
	WeeklyFrequency(table string) ([]models.Frequency, error)
	AverageDuration(table string) (string, bool, error)
	Span(table string, now time.Time) (models.SpanStats, error)

	// Credentials
	Verify(username, password string) (bool, error)

	// Lifecycle
	Close() error
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)
