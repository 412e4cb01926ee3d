// ABOUTME: Error kinds surfaced by the storage layer.
// ABOUTME: Maps SQLite constraint failures onto ErrConstraint.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/gym/internal/config"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrConfig marks a malformed schema or mapping. Fatal at startup.
	ErrConfig = errors.New("configuration error")

	// ErrConstraint marks a uniqueness, primary-key, or not-null violation.
	ErrConstraint = errors.New("constraint violation")
)

// isConstraint reports whether err is a SQLite constraint failure.
func isConstraint(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// classify wraps constraint failures with ErrConstraint.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConstraint(err) {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}

func checkIdentifiers(names ...string) error {
	for _, n := range names {
		if !config.IsIdentifier(n) {
			return fmt.Errorf("%w: bad identifier %q", ErrConfig, n)
		}
	}
	return nil
}
