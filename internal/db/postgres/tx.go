package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type txKey struct{}

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Transactor runs units of work in a database transaction.
// The *sql.Tx travels in the context; repositories pick it up via conn.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a transactor over db
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
// A context that already carries a transaction joins it.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InTx reports whether ctx carries a transaction started by a Transactor
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// conn returns the transaction in ctx, or db when there is none
func conn(ctx context.Context, db *sql.DB) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// lockClause makes reads inside a transaction hold the row until commit,
// so read-modify-write of reference lists cannot interleave
func lockClause(ctx context.Context) string {
	if InTx(ctx) {
		return " FOR UPDATE"
	}
	return ""
}

// validID reports whether id can be compared against a UUID column.
// Anything else cannot match a stored row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs drops ids that are not UUIDs
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// stringArray normalizes a nil slice so it is stored as '{}' rather than NULL
func stringArray(list []string) interface{} {
	if list == nil {
		list = []string{}
	}
	return pq.Array(list)
}
