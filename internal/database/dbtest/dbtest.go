// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/database"
	"gorm.io/gorm"
)

// Open returns a migrated, private in-memory sqlite database that is closed
// when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(URL(), database.Options{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// URL returns a DATABASE_URL for a fresh in-memory sqlite database.
func URL() string {
	return "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared"
}
