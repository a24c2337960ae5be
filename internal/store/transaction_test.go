package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestRunInTransaction_BeginFailure(t *testing.T) {
	t.Parallel()

	// A closed handle makes BeginTx fail without touching the network.
	db, err := sql.Open("pgx", "postgres://localhost:5432/unused")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	called := false
	err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.False(t, called, "work must not run when the transaction cannot start")
}
