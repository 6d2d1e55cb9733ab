// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"gorm.io/gorm"

	"learnjournal/internal/db"
)

// NewDB returns a migrated in-memory SQLite database that lives for the
// duration of the test. The pool is pinned to one connection because every
// connection to ":memory:" opens a fresh, empty database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open("sqlite", ":memory:", db.Options{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close(gormDB)
	})
	return gormDB
}
