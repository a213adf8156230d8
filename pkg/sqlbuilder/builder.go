package sqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect диалект SQL, под который строятся запросы
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect валидирует значение из конфигурации
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectPostgres, DialectSQLite:
		return Dialect(s), nil
	case "":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("sqlbuilder: unsupported dialect %q", s)
	}
}

// Builder squirrel-билдер с плейсхолдерами нужного диалекта
type Builder struct {
	squirrel.StatementBuilderType
	dialect Dialect
}

// New создает Builder: $1.. для postgres, ? для sqlite
func New(dialect Dialect) Builder {
	var placeholder squirrel.PlaceholderFormat = squirrel.Dollar
	if dialect == DialectSQLite {
		placeholder = squirrel.Question
	}
	return Builder{
		StatementBuilderType: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		dialect:              dialect,
	}
}

func (b Builder) Dialect() Dialect {
	return b.dialect
}

// SupportsRowLocks true, если диалект понимает SELECT ... FOR UPDATE.
// SQLite блокирует всю базу на запись, построчных блокировок там нет.
func (b Builder) SupportsRowLocks() bool {
	return b.dialect == DialectPostgres
}
