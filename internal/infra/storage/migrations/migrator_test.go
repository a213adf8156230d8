package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-LessonBookingService/internal/testsupport"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
)

func TestSQLiteMigrationsApplyAndAreIdempotent(t *testing.T) {
	db := testsupport.MustOpenSQLite(t)
	ctx := context.Background()

	m, err := migrations.NewMigrator(db.Unwrap(), sqlbuilder.DialectSQLite)
	require.NoError(t, err)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied, "schema is already migrated by testsupport")

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.Path)
	}
}

func TestUnsupportedDialect(t *testing.T) {
	_, err := migrations.NewMigrator(nil, sqlbuilder.Dialect("mysql"))
	assert.Error(t, err)
}
