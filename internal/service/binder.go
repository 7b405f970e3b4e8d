package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/compliance-binder/internal/apperror"
	"github.com/sakif/compliance-binder/internal/blob"
	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/report"
	"github.com/sakif/compliance-binder/internal/repository"
	"github.com/sakif/compliance-binder/internal/stats"
	"github.com/sakif/compliance-binder/internal/status"
)

const (
	MaxBinderNameLength = 200
	MaxTaskTitleLength  = 200
	MaxNoteLength       = 1000
	MaxUploadBytes      = 25 << 20 // 25 MiB per document
)

// TaskView is a task as presented to clients: the stored row plus the
// derived overdue flag, which is computed per request and never written.
type TaskView struct {
	model.Task
	Overdue bool `json:"overdue"`
}

// BinderService handles the binder, task, and document business logic for
// one authenticated owner at a time. Every method takes the caller's userID
// and lets the repositories resolve entities through the ownership chain.
type BinderService struct {
	binders  repository.BinderRepository
	tasks    repository.TaskRepository
	docs     repository.DocumentRepository
	blobs    blob.Store
	renderer *report.Renderer
	logger   *slog.Logger
	now      func() time.Time
}

func NewBinderService(
	binders repository.BinderRepository,
	tasks repository.TaskRepository,
	docs repository.DocumentRepository,
	blobs blob.Store,
	renderer *report.Renderer,
	logger *slog.Logger,
) *BinderService {
	return &BinderService{
		binders:  binders,
		tasks:    tasks,
		docs:     docs,
		blobs:    blobs,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the service's clock. Tests use it to pin "now" so the
// overdue flag is deterministic.
func (s *BinderService) WithClock(now func() time.Time) *BinderService {
	s.now = now
	return s
}

// CreateBinder validates and saves a new binder for ownerID.
func (s *BinderService) CreateBinder(ctx context.Context, ownerID, name, industry string) (*model.Binder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "binder name is required")
	}
	if len(name) > MaxBinderNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("binder name must be %d characters or less", MaxBinderNameLength))
	}

	binder := &model.Binder{
		OwnerID:  ownerID,
		Name:     name,
		Industry: strings.TrimSpace(industry),
	}
	if err := s.binders.CreateBinder(ctx, binder); err != nil {
		return nil, fmt.Errorf("creating binder: %w", err)
	}

	s.logger.Info("binder created",
		slog.String("id", binder.ID),
		slog.String("name", binder.Name),
	)
	return binder, nil
}

func (s *BinderService) ListBinders(ctx context.Context, ownerID string) ([]model.Binder, error) {
	binders, err := s.binders.ListBinders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing binders: %w", err)
	}
	return binders, nil
}

func (s *BinderService) GetBinder(ctx context.Context, ownerID, binderID string) (*model.Binder, error) {
	return s.binders.GetBinder(ctx, ownerID, binderID)
}

// DeleteBinder removes a binder with everything inside it. Blobs are purged
// first, then the rows go in one transaction. A blob that fails to delete
// is logged and skipped; the metadata delete still proceeds, so the worst
// outcome is an orphaned blob, never a dangling metadata row.
func (s *BinderService) DeleteBinder(ctx context.Context, ownerID, binderID string) error {
	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return err
	}

	docs, err := s.docs.ListDocuments(ctx, binder.ID)
	if err != nil {
		return fmt.Errorf("listing documents for delete: %w", err)
	}
	for _, d := range docs {
		if err := s.blobs.Delete(ctx, d.StorageKey); err != nil {
			s.logger.Warn("orphaned blob left behind",
				slog.String("documentID", d.ID),
				slog.String("storageKey", d.StorageKey),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.binders.DeleteBinder(ctx, ownerID, binderID); err != nil {
		return err
	}

	s.logger.Info("binder deleted",
		slog.String("id", binderID),
		slog.Int("documents", len(docs)),
	)
	return nil
}

// CreateTask validates and saves a new open task in the given binder.
// A nil due date is allowed; such a task never becomes overdue.
func (s *BinderService) CreateTask(ctx context.Context, ownerID, binderID, title, description string, due *model.Date) (*TaskView, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "task title is required")
	}
	if len(title) > MaxTaskTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("task title must be %d characters or less", MaxTaskTitleLength))
	}

	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		BinderID:    binder.ID,
		Title:       title,
		Description: strings.TrimSpace(description),
		DueDate:     due,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("id", task.ID),
		slog.String("binderID", binder.ID),
	)
	return s.view(task), nil
}

// ListTasks returns a binder's tasks with the overdue flag derived at a
// single instant, so one listing can't straddle a day boundary.
func (s *BinderService) ListTasks(ctx context.Context, ownerID, binderID string) ([]TaskView, error) {
	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(ctx, binder.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	now := s.now()
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		obs := status.Derive(&tasks[i], now)
		views = append(views, TaskView{Task: tasks[i], Overdue: obs.Overdue})
	}
	return views, nil
}

// CompleteTask transitions a task to done. Completing an already-done task
// is a no-op that returns the task unchanged, original completion timestamp
// included.
func (s *BinderService) CompleteTask(ctx context.Context, ownerID, taskID string) (*TaskView, error) {
	task, err := s.tasks.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == model.TaskDone {
		return s.view(task), nil
	}

	completedAt := s.now().UTC()
	if err := s.tasks.CompleteTask(ctx, task.ID, completedAt); err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}

	// Re-read instead of patching the local copy: if a concurrent request
	// won the conditional update, this returns its timestamp.
	task, err = s.tasks.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("task completed", slog.String("id", task.ID))
	return s.view(task), nil
}

// UploadDocument stores the file bytes first and writes the metadata row
// second. If the metadata write fails, the stored blob is removed again so
// no metadata row can point at a blob and no successful upload leaves rows
// without bytes.
func (s *BinderService) UploadDocument(ctx context.Context, ownerID, binderID, originalName, note string, data []byte) (*model.Document, error) {
	originalName = strings.TrimSpace(originalName)
	if originalName == "" {
		return nil, apperror.ValidationFailed("file", "file name is required")
	}
	if len(data) == 0 {
		return nil, apperror.ValidationFailed("file", "file must not be empty")
	}
	if len(data) > MaxUploadBytes {
		return nil, apperror.ValidationFailed("file",
			fmt.Sprintf("file must be %d bytes or less", MaxUploadBytes))
	}
	if len(note) > MaxNoteLength {
		return nil, apperror.ValidationFailed("note",
			fmt.Sprintf("note must be %d characters or less", MaxNoteLength))
	}

	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return nil, err
	}

	key, err := s.blobs.Put(ctx, data)
	if err != nil {
		return nil, apperror.StorageFailed("storing upload", err)
	}

	doc := &model.Document{
		BinderID:     binder.ID,
		OriginalName: originalName,
		Note:         strings.TrimSpace(note),
		StorageKey:   key,
		Size:         int64(len(data)),
	}
	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned blob left behind after failed upload",
				slog.String("storageKey", key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("recording upload: %w", err)
	}

	s.logger.Info("document uploaded",
		slog.String("id", doc.ID),
		slog.String("binderID", binder.ID),
		slog.Int64("size", doc.Size),
	)
	return doc, nil
}

func (s *BinderService) ListDocuments(ctx context.Context, ownerID, binderID string) ([]model.Document, error) {
	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return nil, err
	}

	docs, err := s.docs.ListDocuments(ctx, binder.ID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// DownloadDocument returns a document's metadata and a reader over its
// bytes. The caller must close the reader. A metadata row whose blob is
// missing is a storage inconsistency, not a NotFound.
func (s *BinderService) DownloadDocument(ctx context.Context, ownerID, documentID string) (*model.Document, io.ReadCloser, error) {
	doc, err := s.docs.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, apperror.StorageFailed("reading document "+doc.ID, err)
	}
	return doc, body, nil
}

// Stats computes the summary counts for one binder as of now.
func (s *BinderService) Stats(ctx context.Context, ownerID, binderID string) (stats.Summary, error) {
	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return stats.Summary{}, err
	}

	tasks, err := s.tasks.ListTasks(ctx, binder.ID)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("listing tasks: %w", err)
	}
	docs, err := s.docs.ListDocuments(ctx, binder.ID)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("listing documents: %w", err)
	}

	return stats.Aggregate(tasks, docs, s.now()), nil
}

// Report renders the binder's inspection report as a standalone HTML page.
func (s *BinderService) Report(ctx context.Context, ownerID, binderID string) ([]byte, error) {
	binder, err := s.binders.GetBinder(ctx, ownerID, binderID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(ctx, binder.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	docs, err := s.docs.ListDocuments(ctx, binder.ID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return s.renderer.Render(binder, tasks, docs, s.now())
}

func (s *BinderService) view(t *model.Task) *TaskView {
	obs := status.Derive(t, s.now())
	return &TaskView{Task: *t, Overdue: obs.Overdue}
}
