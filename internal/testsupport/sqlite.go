package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/database"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-LessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
)

// MustOpenSQLite открывает мигрированную SQLite-базу во временном каталоге теста
func MustOpenSQLite(t testing.TB) *dbmetrics.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, database.Options{
		Dialect: sqlbuilder.DialectSQLite,
		Path:    filepath.Join(t.TempDir(), "lessons.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	migrator, err := migrations.NewMigrator(db, sqlbuilder.DialectSQLite)
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	if _, err := migrator.Up(ctx); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return dbmetrics.Wrap(db, nil)
}

// SQLiteBuilder билдер запросов для SQLite
func SQLiteBuilder() sqlbuilder.Builder {
	return sqlbuilder.New(sqlbuilder.DialectSQLite)
}

// NopLogger удовлетворяет интерфейсам Logger всех пакетов
type NopLogger struct{}

func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}

// FixedClock TimeProvider с управляемым временем
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance сдвигает часы
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
