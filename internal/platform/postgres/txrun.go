// Copyright (c) 2026 Folioworks. All rights reserved.

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/folioworks/folio/internal/platform/dberr"
)

// Runner executes a unit of work, optionally inside a database transaction.
//
// Admin writes resolve catalog relations and then persist a content document;
// those steps must be atomic when the deployment supports it, but a write
// must never fail merely because transactions are unavailable. Services
// depend on this interface so tests can substitute a pass-through runner.
type Runner interface {
	// WithOptionalTx runs fn with a [Querier] that is either a live
	// transaction or the bare pool. fn must perform every read and write
	// through the provided Querier.
	WithOptionalTx(ctx context.Context, fn func(q Querier) error) error
}

// TxRunner is the production [Runner]: a two-state strategy fixed at startup.
//
// # Strategy selection
//
//   - Disabled via config (DB_USE_TRANSACTIONS=false): fn always runs on the pool.
//   - [TxRunner.Probe] failed at startup: same degradation, decided once
//     instead of re-discovered on every call.
//   - Otherwise: fn runs inside Begin/Commit, with a single sessionless retry
//     when the server rejects the transaction itself at runtime.
//
// After startup the runner is read-only and safe for concurrent use.
type TxRunner struct {
	db        Beginner
	log       *slog.Logger
	disabled  bool
	supported bool
}

// NewTxRunner creates a runner. enabled mirrors the DB_USE_TRANSACTIONS
// config toggle. Call [TxRunner.Probe] once before serving traffic.
func NewTxRunner(db Beginner, enabled bool, log *slog.Logger) *TxRunner {
	return &TxRunner{
		db:        db,
		log:       log,
		disabled:  !enabled,
		supported: true,
	}
}

// Probe checks once whether the connected deployment accepts explicit
// transactions, so per-request calls never pay for capability discovery.
// A failed probe permanently degrades the runner to best-effort mode.
func (r *TxRunner) Probe(ctx context.Context) {
	if r.disabled {
		r.log.Info("transactions disabled by configuration")
		return
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.supported = false
		r.log.Warn("transaction probe failed, degrading to best-effort writes",
			slog.Any("error", err),
		)
		return
	}

	_ = tx.Rollback(ctx)
	r.supported = true
}

// WithOptionalTx implements [Runner].
//
// Error contract: any error returned by fn aborts the transaction and
// propagates unchanged, except the transaction-unsupported class, which
// triggers exactly one retry of fn without a transaction. The retried
// attempt is never itself retried.
func (r *TxRunner) WithOptionalTx(ctx context.Context, fn func(q Querier) error) error {
	if r.disabled || !r.supported {
		return fn(r.db)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		// Session startup failure must not fail the caller's write.
		r.log.Warn("begin failed, running without transaction", slog.Any("error", err))
		return fn(r.db)
	}

	// Rollback after Commit is a harmless no-op; the defer guarantees the
	// session is released on every exit path, including panics in fn.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)

		if dberr.IsTxUnsupported(err) {
			// The server accepted Begin but rejected the transaction at
			// runtime (proxying single-node deployments do this). Preserve
			// forward progress with one sessionless attempt.
			r.log.Warn("transaction rejected at runtime, retrying without transaction",
				slog.Any("error", err),
			)
			return fn(r.db)
		}

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if dberr.IsTxUnsupported(err) {
			r.log.Warn("commit rejected, retrying without transaction", slog.Any("error", err))
			return fn(r.db)
		}
		return fmt.Errorf("postgres: commit failed: %w", err)
	}

	return nil
}
