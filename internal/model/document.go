package model

import "time"

// Document is uploaded evidence attached to a binder. The file bytes live in
// the blob store under StorageKey; this row holds only metadata.
//
// OriginalName comes from the uploader and is untrusted — it is used solely
// for display and as the download filename hint, never as a filesystem path.
// StorageKey is unique and assigned atomically with this row: a document row
// without a stored blob is a bug the upload path must prevent.
type Document struct {
	ID           string    `json:"id"           db:"id"`
	BinderID     string    `json:"binderId"     db:"binder_id"`
	OriginalName string    `json:"originalName" db:"original_name"`
	Note         string    `json:"note"         db:"note"`
	StorageKey   string    `json:"-"            db:"storage_key"`
	Size         int64     `json:"size"         db:"size"`
	UploadedAt   time.Time `json:"uploadedAt"   db:"uploaded_at"`
}
