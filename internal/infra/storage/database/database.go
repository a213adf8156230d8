package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// Options параметры подключения
type Options struct {
	Dialect sqlbuilder.Dialect

	// DSN строка подключения postgres
	DSN string

	// Path путь к файлу sqlite
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open открывает пул соединений и проверяет его ping-ом.
// Для SQLite пул ограничен одним соединением: запись в файл все равно
// сериализуется, а так не бывает SQLITE_BUSY при апгрейде блокировки.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch opts.Dialect {
	case sqlbuilder.DialectPostgres:
		db, err = sql.Open("postgres", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("database: open postgres: %w", err)
		}
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}

	case sqlbuilder.DialectSQLite:
		db, err = sql.Open("sqlite", SQLiteDSN(opts.Path))
		if err != nil {
			return nil, fmt.Errorf("database: open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)

	default:
		return nil, fmt.Errorf("database: unsupported dialect %q", opts.Dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// SQLiteDSN строка подключения с прагмами WAL, foreign_keys и busy_timeout
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

// IsUniqueViolation true, если ошибка вызвана нарушением уникального индекса
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

// IsSerializationFailure true, если postgres откатил сериализуемую транзакцию
// из-за конфликта с параллельной (SQLSTATE 40001)
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgSerializationFailure
	}
	return false
}
