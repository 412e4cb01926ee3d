// ABOUTME: Credential check against the users table.
// ABOUTME: Passwords are stored as unsalted SHA-256 hex digests.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// UsersTable holds username and password_hash columns.
const UsersTable = "users"

// Digest returns the stored form of a password.
// Single round, no salt: weak against offline guessing.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether username exists with the digest of password.
func (d *DB) Verify(username, password string) (bool, error) {
	query, args, err := d.qb.Select("COUNT(*)").From(UsersTable).
		Where(squirrel.Eq{"username": username, "password_hash": Digest(password)}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build credential query: %w", err)
	}
	var n int
	if err := d.db.QueryRow(query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check credentials: %w", err)
	}
	return n > 0, nil
}

// CreateUser stores a user out of band. A taken username wraps ErrConstraint.
func (d *DB) CreateUser(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	query, args, err := d.qb.Insert(UsersTable).
		Columns("username", "password_hash").
		Values(username, Digest(password)).ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}
	if _, err := d.db.Exec(query, args...); err != nil {
		return fmt.Errorf("create user %s: %w", username, classify(err))
	}
	return nil
}
