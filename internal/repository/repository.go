// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage implements them; tests use in-memory
// substitutes.
//
// Ownership is enforced at the query level: every lookup that targets a
// binder-owned entity takes the caller's user ID and resolves the entity
// through its owning chain. A row that exists but belongs to another user is
// reported exactly like a row that does not exist (apperror.ErrNotFound), so
// the answer never leaks whether another tenant's entity exists.
package repository

import (
	"context"
	"time"

	"github.com/sakif/compliance-binder/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new email/password account. The email is stored
	// lowercased; a duplicate (case-insensitive) yields apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// UpsertGitHubUser inserts or refreshes an account keyed by GitHub ID.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}

type BinderRepository interface {
	CreateBinder(ctx context.Context, binder *model.Binder) error
	// ListBinders returns the caller's binders in insertion order.
	ListBinders(ctx context.Context, ownerID string) ([]model.Binder, error)
	// GetBinder resolves a binder the caller owns, or ErrNotFound.
	GetBinder(ctx context.Context, ownerID, binderID string) (*model.Binder, error)
	// DeleteBinder removes the binder and all of its task and document rows
	// in one transaction, children first. Blob cleanup is the caller's job
	// and happens before this call.
	DeleteBinder(ctx context.Context, ownerID, binderID string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	// ListTasks returns a binder's tasks in insertion order. The caller has
	// already established ownership of the binder.
	ListTasks(ctx context.Context, binderID string) ([]model.Task, error)
	// GetTask resolves a task whose parent binder the caller owns.
	GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	// CompleteTask transitions an open task to done, stamping completedAt.
	// It only writes if the task is still open, which keeps the completion
	// timestamp stable when two requests race.
	CompleteTask(ctx context.Context, taskID string, completedAt time.Time) error
}

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	ListDocuments(ctx context.Context, binderID string) ([]model.Document, error)
	GetDocument(ctx context.Context, ownerID, documentID string) (*model.Document, error)
}

// Totals are store-wide counts for the metrics endpoint.
type Totals struct {
	Users        int
	Binders      int
	Tasks        int
	TasksOpen    int
	TasksDone    int
	TasksOverdue int
	Documents    int
	StorageBytes int64
}

type StatsRepository interface {
	// GlobalTotals counts across all users. today is the calendar day used
	// for the overdue bucket, injected so scrapes are reproducible in tests.
	GlobalTotals(ctx context.Context, today model.Date) (Totals, error)
}
