package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/municipallabs/corecrm/internal/models"
)

// Scope is a tenant-bound handle valid only inside the callback passed to
// WithTenant. Every store method that touches tenant data takes a Scope, so
// there is no code path that reaches crm tables without the RLS setting in
// place. After the callback returns the Scope is closed and any further use
// fails with models.ErrScopeClosed.
type Scope struct {
	tenantID string
	tx       pgx.Tx
	closed   bool
}

// TenantID returns the tenant this scope is bound to.
func (s *Scope) TenantID() string {
	return s.tenantID
}

func (s *Scope) guard() error {
	if s.closed {
		return fmt.Errorf("tenant %s: %w", s.tenantID, models.ErrScopeClosed)
	}

	return nil
}

// exec runs a statement inside the scoped transaction.
func (s *Scope) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if err := s.guard(); err != nil {
		return pgconn.CommandTag{}, err
	}

	return s.tx.Exec(ctx, sql, args...)
}

// query runs a query inside the scoped transaction.
func (s *Scope) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	return s.tx.Query(ctx, sql, args...)
}

// queryRow runs a single-row query inside the scoped transaction. A closed
// scope surfaces the error on Scan.
func (s *Scope) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if err := s.guard(); err != nil {
		return errRow{err: err}
	}

	return s.tx.QueryRow(ctx, sql, args...)
}

// errRow is a pgx.Row that fails with a fixed error on Scan.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// WithTenant resolves the tenant, opens a read-write transaction with the
// tenant RLS setting applied, and runs fn with a Scope bound to it. The
// transaction commits only if fn returns nil; any error (or panic) rolls
// everything back, so multi-table mutations made through one Scope are
// atomic. Errors from fn are returned wrapped with the tenant ID.
func (b *Base) WithTenant(ctx context.Context, tenantID string, fn func(sc *Scope) error) error {
	return b.withTenant(ctx, tenantID, pgx.TxOptions{}, fn)
}

// WithTenantRead is WithTenant with a read-only transaction. Writes made
// through the Scope fail at the database.
func (b *Base) WithTenantRead(ctx context.Context, tenantID string, fn func(sc *Scope) error) error {
	return b.withTenant(ctx, tenantID, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (b *Base) withTenant(ctx context.Context, tenantID string, opts pgx.TxOptions, fn func(sc *Scope) error) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := uuid.Parse(tenantID); err != nil {
		return fmt.Errorf("tenant %q: %w", tenantID, models.ErrTenantResolution)
	}

	tx, err := b.Pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit, best-effort otherwise.

	// Verify the tenant exists before binding the scope. The tenants table
	// has no RLS, so this check works before set_config.
	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM tenants WHERE id = $1)", tenantID).Scan(&exists); err != nil {
		return fmt.Errorf("resolving tenant: %w", err)
	}
	if !exists {
		return fmt.Errorf("tenant %q: %w", tenantID, models.ErrTenantResolution)
	}

	if err := setTenant(ctx, tx, tenantID); err != nil {
		return err
	}

	sc := &Scope{tenantID: tenantID, tx: tx}
	// Close the scope even when fn panics, so a recovered handler cannot
	// reuse the handle against a rolled-back transaction.
	defer func() { sc.closed = true }()

	if err := fn(sc); err != nil {
		return fmt.Errorf("tenant %s: %w", tenantID, err)
	}

	sc.closed = true

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tenant %s scope: %w", tenantID, err)
	}

	return nil
}

// mapPgError converts well-known Postgres error codes into domain sentinels
// so callers can match with errors.Is.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, models.ErrDuplicateKey)
	case "22001":
		return fmt.Errorf("%s: %w", pgErr.ColumnName, models.ErrValueTooLong)
	}

	return err
}
