package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttsync/internal/db"
)

func openUowDB(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertProject(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (id, short_id, created_at, updated_at)
		VALUES (?, ?, '2026-03-02T09:00:00Z', '2026-03-02T09:00:00Z')`, id, "P-"+id)
	return err
}

func projectExists(uow *db.SQLiteUnitOfWork, id string) bool {
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var got string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = ?`, id).Scan(&got); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openUowDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "p1")
	})
	require.NoError(t, err)

	assert.True(t, projectExists(uow, "p1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openUowDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "p2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	assert.False(t, projectExists(uow, "p2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openUowDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "p3")
			panic("boom")
		})
	})

	assert.False(t, projectExists(uow, "p3"), "row should not exist after panic rollback")
}

func TestWithinTx_MultiTableAtomicity(t *testing.T) {
	uow := openUowDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "p4"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (project_id, durable_id, name) VALUES ('p4', 1, 'Excavate')`); err != nil {
			return err
		}
		// Second insert violates the task primary key; both tables roll back.
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (project_id, durable_id, name) VALUES ('p4', 1, 'Duplicate')`)
		return err
	})
	require.Error(t, err)

	assert.False(t, projectExists(uow, "p4"))
}
