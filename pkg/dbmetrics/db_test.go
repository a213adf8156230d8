package dbmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationName(t *testing.T) {
	cases := map[string]string{
		"SELECT id FROM bookings":        "SELECT",
		"  insert into bookings (id)":    "INSERT",
		"UPDATE\nbookings SET status=$1": "UPDATE",
		"":                               "UNKNOWN",
	}
	for query, want := range cases {
		assert.Equal(t, want, operationName(query), query)
	}
}

func TestGetExecutorPrefersTransaction(t *testing.T) {
	fallback := Wrap(nil, nil)
	tx := &Tx{}

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, fallback, GetExecutor(ctx, fallback))

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, fallback))
}
