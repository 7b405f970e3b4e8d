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

// compile-time check that *DB implements repository.DocumentRepository
var _ repository.DocumentRepository = (*DB)(nil)

// CreateDocument writes the metadata row for an already-stored blob. The
// UNIQUE constraint on storage_key backs the one-blob-one-row invariant.
func (db *DB) CreateDocument(ctx context.Context, doc *model.Document) error {
	doc.ID = xid.New().String()
	doc.UploadedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO documents (id, binder_id, original_name, note, storage_key, size, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID,
		doc.BinderID,
		doc.OriginalName,
		doc.Note,
		doc.StorageKey,
		doc.Size,
		doc.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("document", "storage key already in use")
		}
		return fmt.Errorf("sqlite: inserting document: %w", err)
	}
	return nil
}

func (db *DB) ListDocuments(ctx context.Context, binderID string) ([]model.Document, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, binder_id, original_name, note, storage_key, size, uploaded_at
		 FROM documents WHERE binder_id = ? ORDER BY id`,
		binderID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing documents: %w", err)
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.BinderID, &d.OriginalName, &d.Note, &d.StorageKey, &d.Size, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating documents: %w", err)
	}
	return docs, nil
}

// GetDocument resolves a document through its parent binder's ownership.
func (db *DB) GetDocument(ctx context.Context, ownerID, documentID string) (*model.Document, error) {
	var d model.Document
	err := db.conn.QueryRowContext(ctx,
		`SELECT d.id, d.binder_id, d.original_name, d.note, d.storage_key, d.size, d.uploaded_at
		 FROM documents d
		 JOIN binders b ON b.id = d.binder_id
		 WHERE d.id = ? AND b.owner_id = ?`,
		documentID, ownerID,
	).Scan(&d.ID, &d.BinderID, &d.OriginalName, &d.Note, &d.StorageKey, &d.Size, &d.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("document", documentID)
		}
		return nil, fmt.Errorf("sqlite: getting document %s: %w", documentID, err)
	}
	return &d, nil
}
