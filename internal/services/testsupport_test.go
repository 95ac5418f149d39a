package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/types"
)

// newTestDB opens an isolated in-memory sqlite database migrated with the
// full schema. Each test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gormDB.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Company{},
		&types.Question{},
		&types.InterviewSession{},
		&types.InterviewResponse{},
		&types.Feedback{},
		&types.UserProgress{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gormDB
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func strPtr(s string) *string { return &s }
