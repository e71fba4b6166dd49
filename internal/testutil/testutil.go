// Package testutil provides shared helpers for service tests. Tests run
// against an isolated in-memory SQLite database carrying the full schema.
package testutil

import (
	"fmt"
	"testing"

	"github.com/carelinkhq/carechat-core/internal/database"
	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens a fresh in-memory database and migrates the schema. Each call
// gets its own named memory database so parallel tests never share state.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// Scope returns a fresh (tenant, app) ownership key.
func Scope() middleware.AppScope {
	return middleware.AppScope{
		TenantID: uuid.NewString(),
		AppID:    uuid.NewString(),
	}
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
