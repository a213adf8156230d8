package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// Migrator применяет встроенные миграции goose для выбранного диалекта
type Migrator struct {
	provider *goose.Provider
}

// Status состояние одной миграции
type Status struct {
	Version int64
	Path    string
	Applied bool
}

// NewMigrator создает мигратор поверх уже открытого соединения
func NewMigrator(db *sql.DB, dialect sqlbuilder.Dialect) (*Migrator, error) {
	gooseDialect, dir, err := resolve(dialect)
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(embedded, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: open %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrations: create goose provider: %w", err)
	}

	return &Migrator{provider: provider}, nil
}

// Up применяет все новые миграции и возвращает их количество
func (m *Migrator) Up(ctx context.Context) (int, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrations: apply: %w", err)
	}
	return len(results), nil
}

// Version текущая версия схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations: get version: %w", err)
	}
	return version, nil
}

// Status список миграций с признаком применения
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrations: status: %w", err)
	}

	result := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, Status{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return result, nil
}

func resolve(dialect sqlbuilder.Dialect) (goose.Dialect, string, error) {
	switch dialect {
	case sqlbuilder.DialectPostgres:
		return goose.DialectPostgres, "postgres", nil
	case sqlbuilder.DialectSQLite:
		return goose.DialectSQLite3, "sqlite", nil
	default:
		return "", "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}
