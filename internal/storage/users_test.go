// ABOUTME: Tests for the credential check.
package storage

import (
	"errors"
	"testing"
)

func TestDigest(t *testing.T) {
	// sha256("password")
	want := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	if got := Digest("password"); got != want {
		t.Errorf("Digest() = %s, want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	db := setupTestDB(t)
	ensureTables(t, db, usersTable())
	if err := db.CreateUser("alice", "s3cret"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct", "alice", "s3cret", true},
		{"wrong password", "alice", "secret", false},
		{"unknown user", "bob", "s3cret", false},
		{"username case differs", "Alice", "s3cret", false},
		{"password case differs", "alice", "S3CRET", false},
		{"empty password", "alice", "", false},
		{"empty username", "", "s3cret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Verify(tt.username, tt.password)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestVerifyWithoutUsersTable(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Verify("alice", "x"); err == nil {
		t.Error("expected error when users table is missing")
	}
}

func TestCreateUserErrors(t *testing.T) {
	db := setupTestDB(t)
	ensureTables(t, db, usersTable())

	if err := db.CreateUser("", "pw"); err == nil {
		t.Error("expected error for empty username")
	}
	if err := db.CreateUser("alice", "pw"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := db.CreateUser("alice", "other"); !errors.Is(err, ErrConstraint) {
		t.Errorf("expected ErrConstraint for taken username, got %v", err)
	}
}
