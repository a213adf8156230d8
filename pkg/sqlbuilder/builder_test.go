package sqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholdersPerDialect(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		wantSQL  string
		rowLocks bool
	}{
		{DialectPostgres, "SELECT id FROM bookings WHERE teacher_id = $1 AND status = $2", true},
		{DialectSQLite, "SELECT id FROM bookings WHERE teacher_id = ? AND status = ?", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			b := New(tt.dialect)
			query, args, err := b.Select("id").
				From("bookings").
				Where(squirrel.Eq{"teacher_id": 7}).
				Where(squirrel.Eq{"status": "confirmed"}).
				ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, []interface{}{7, "confirmed"}, args)
			assert.Equal(t, tt.dialect, b.Dialect())
			assert.Equal(t, tt.rowLocks, b.SupportsRowLocks())
		})
	}
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}
