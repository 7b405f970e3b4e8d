package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/compliance-binder/internal/apperror"
	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/repository"
)

// compile-time check that *DB implements repository.BinderRepository
var _ repository.BinderRepository = (*DB)(nil)

func (db *DB) CreateBinder(ctx context.Context, binder *model.Binder) error {
	binder.ID = xid.New().String()
	binder.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO binders (id, owner_id, name, industry, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		binder.ID,
		binder.OwnerID,
		binder.Name,
		binder.Industry,
		binder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting binder: %w", err)
	}
	return nil
}

// ListBinders returns the owner's binders in insertion order. xid values sort
// by creation time, so ordering by id keeps the listing stable.
func (db *DB) ListBinders(ctx context.Context, ownerID string) ([]model.Binder, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, name, industry, created_at
		 FROM binders WHERE owner_id = ? ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing binders: %w", err)
	}
	defer rows.Close()

	binders := make([]model.Binder, 0)
	for rows.Next() {
		var b model.Binder
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Industry, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning binder row: %w", err)
		}
		binders = append(binders, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating binders: %w", err)
	}
	return binders, nil
}

// GetBinder resolves a binder by id, constrained to the caller's ownership.
// "Absent" and "owned by someone else" are the same NotFound on purpose.
func (db *DB) GetBinder(ctx context.Context, ownerID, binderID string) (*model.Binder, error) {
	var b model.Binder
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, name, industry, created_at
		 FROM binders WHERE id = ? AND owner_id = ?`,
		binderID, ownerID,
	).Scan(&b.ID, &b.OwnerID, &b.Name, &b.Industry, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("binder", binderID)
		}
		return nil, fmt.Errorf("sqlite: getting binder %s: %w", binderID, err)
	}
	return &b, nil
}

// DeleteBinder removes the binder and its children in one transaction,
// children first, so no moment exists where a task or document row points at
// a binder that is gone.
func (db *DB) DeleteBinder(ctx context.Context, ownerID, binderID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	// Ownership check inside the transaction; everything below trusts it.
	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id FROM binders WHERE id = ?`, binderID,
	).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != ownerID) {
		return apperror.NotFound("binder", binderID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: checking binder %s: %w", binderID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE binder_id = ?`, binderID); err != nil {
		return fmt.Errorf("sqlite: deleting tasks of binder %s: %w", binderID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE binder_id = ?`, binderID); err != nil {
		return fmt.Errorf("sqlite: deleting documents of binder %s: %w", binderID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM binders WHERE id = ?`, binderID); err != nil {
		return fmt.Errorf("sqlite: deleting binder %s: %w", binderID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing binder delete: %w", err)
	}
	return nil
}
