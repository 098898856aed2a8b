// Copyright (c) 2026 Folioworks. All rights reserved.

package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/platform/postgres"
)

// fakeTx satisfies pgx.Tx by embedding the interface; only the methods the
// runner touches are overridden.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}

// fakeDB satisfies postgres.Beginner. The embedded Querier is never invoked
// by these tests; fn only records which Querier it received.
type fakeDB struct {
	postgres.Querier
	tx       *fakeTx
	beginErr error
	begins   int
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.begins++
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return db.tx, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func txUnsupportedErr() error {
	return &pgconn.PgError{Code: pgerrcode.FeatureNotSupported, Message: "transactions are not supported"}
}

/*
TestWithOptionalTx_Disabled verifies that the config toggle bypasses transactions entirely.
*/
func TestWithOptionalTx_Disabled(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	runner := postgres.NewTxRunner(db, false, discardLogger())

	var got postgres.Querier
	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		got = q
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0, db.begins, "Begin must not be called when disabled")
	assert.Same(t, db, got, "work must run against the pool")
}

/*
TestWithOptionalTx_CommitsOnSuccess verifies the happy transactional path.
*/
func TestWithOptionalTx_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeDB{tx: tx}
	runner := postgres.NewTxRunner(db, true, discardLogger())

	var got postgres.Querier
	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		got = q
		return nil
	})

	require.NoError(t, err)
	assert.Same(t, tx, got, "work must run inside the transaction")
	assert.Equal(t, 1, tx.commits)
}

/*
TestWithOptionalTx_RollsBackOnError verifies that a failing unit of work aborts
the transaction and the error propagates unchanged.
*/
func TestWithOptionalTx_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeDB{tx: tx}
	runner := postgres.NewTxRunner(db, true, discardLogger())

	boom := errors.New("unresolved relations")
	calls := 0
	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "ordinary errors must not be retried")
	assert.Equal(t, 0, tx.commits)
	assert.GreaterOrEqual(t, tx.rollbacks, 1)
}

/*
TestWithOptionalTx_BeginFailureFallsBack verifies that session startup failure
degrades to a sessionless run instead of failing the write.
*/
func TestWithOptionalTx_BeginFailureFallsBack(t *testing.T) {
	db := &fakeDB{beginErr: errors.New("cannot start session")}
	runner := postgres.NewTxRunner(db, true, discardLogger())

	var got postgres.Querier
	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		got = q
		return nil
	})

	require.NoError(t, err)
	assert.Same(t, db, got)
}

/*
TestWithOptionalTx_UnsupportedRetriesOnce verifies the single sessionless retry
when the server rejects the transaction at runtime.
*/
func TestWithOptionalTx_UnsupportedRetriesOnce(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeDB{tx: tx}
	runner := postgres.NewTxRunner(db, true, discardLogger())

	var queriers []postgres.Querier
	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		queriers = append(queriers, q)
		if len(queriers) == 1 {
			return txUnsupportedErr()
		}
		return nil
	})

	require.NoError(t, err)
	require.Len(t, queriers, 2)
	assert.Same(t, tx, queriers[0], "first attempt runs in the transaction")
	assert.Same(t, db, queriers[1], "retry runs against the pool")
}

/*
TestWithOptionalTx_RetryIsNotRetried verifies the sessionless retry propagates
its own failure instead of looping.
*/
func TestWithOptionalTx_RetryIsNotRetried(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeDB{tx: tx}
	runner := postgres.NewTxRunner(db, true, discardLogger())

	calls := 0
	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		calls++
		return txUnsupportedErr()
	})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

/*
TestProbe_FailureDegradesPermanently verifies that a failed startup probe
switches the runner to best-effort mode for all subsequent calls.
*/
func TestProbe_FailureDegradesPermanently(t *testing.T) {
	db := &fakeDB{beginErr: errors.New("transactions unavailable")}
	runner := postgres.NewTxRunner(db, true, discardLogger())
	runner.Probe(context.Background())

	db.beginErr = nil // even if Begin would now succeed, the decision is made
	db.tx = &fakeTx{}
	beginsBefore := db.begins

	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		assert.Same(t, db, q)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, beginsBefore, db.begins, "no Begin after a failed probe")
}

/*
TestWithOptionalTx_CommitErrorPropagates verifies generic commit failures are surfaced.
*/
func TestWithOptionalTx_CommitErrorPropagates(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("disk full")}
	db := &fakeDB{tx: tx}
	runner := postgres.NewTxRunner(db, true, discardLogger())

	err := runner.WithOptionalTx(context.Background(), func(q postgres.Querier) error {
		return nil
	})

	assert.ErrorContains(t, err, "commit failed")
}
