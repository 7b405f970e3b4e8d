package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sakif/compliance-binder/internal/apperror"
	"github.com/sakif/compliance-binder/internal/model"
)

// In-memory substitutes for the repository interfaces and the blob store.
// They keep insertion order and can be told to fail, which makes the
// atomicity paths testable without a database.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) UpsertGitHubUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID == user.GitHubID {
			u.Email = user.Email
			*user = *u
			return nil
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

type mockBinderRepo struct {
	binders []model.Binder
	nextID  int
}

func (m *mockBinderRepo) CreateBinder(_ context.Context, binder *model.Binder) error {
	m.nextID++
	binder.ID = fmt.Sprintf("binder-%d", m.nextID)
	binder.CreatedAt = time.Now()
	m.binders = append(m.binders, *binder)
	return nil
}

func (m *mockBinderRepo) ListBinders(_ context.Context, ownerID string) ([]model.Binder, error) {
	result := make([]model.Binder, 0)
	for _, b := range m.binders {
		if b.OwnerID == ownerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBinderRepo) GetBinder(_ context.Context, ownerID, binderID string) (*model.Binder, error) {
	for _, b := range m.binders {
		if b.ID == binderID && b.OwnerID == ownerID {
			result := b
			return &result, nil
		}
	}
	return nil, apperror.NotFound("binder", binderID)
}

func (m *mockBinderRepo) DeleteBinder(_ context.Context, ownerID, binderID string) error {
	for i, b := range m.binders {
		if b.ID == binderID && b.OwnerID == ownerID {
			m.binders = append(m.binders[:i], m.binders[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("binder", binderID)
}

type mockTaskRepo struct {
	tasks  []model.Task
	owners *mockBinderRepo
	nextID int
}

func (m *mockTaskRepo) CreateTask(_ context.Context, task *model.Task) error {
	m.nextID++
	task.ID = fmt.Sprintf("task-%d", m.nextID)
	task.Status = model.TaskOpen
	task.CreatedAt = time.Now()
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *mockTaskRepo) ListTasks(_ context.Context, binderID string) ([]model.Task, error) {
	result := make([]model.Task, 0)
	for _, t := range m.tasks {
		if t.BinderID == binderID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	for _, t := range m.tasks {
		if t.ID != taskID {
			continue
		}
		if _, err := m.owners.GetBinder(ctx, ownerID, t.BinderID); err != nil {
			return nil, apperror.NotFound("task", taskID)
		}
		result := t
		return &result, nil
	}
	return nil, apperror.NotFound("task", taskID)
}

func (m *mockTaskRepo) CompleteTask(_ context.Context, taskID string, completedAt time.Time) error {
	for i := range m.tasks {
		if m.tasks[i].ID == taskID && m.tasks[i].Status == model.TaskOpen {
			m.tasks[i].Status = model.TaskDone
			at := completedAt
			m.tasks[i].CompletedAt = &at
		}
	}
	return nil
}

type mockDocumentRepo struct {
	docs    []model.Document
	owners  *mockBinderRepo
	nextID  int
	failing bool
}

func (m *mockDocumentRepo) CreateDocument(_ context.Context, doc *model.Document) error {
	if m.failing {
		return errors.New("mock: document insert failed")
	}
	m.nextID++
	doc.ID = fmt.Sprintf("doc-%d", m.nextID)
	doc.UploadedAt = time.Now()
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *mockDocumentRepo) ListDocuments(_ context.Context, binderID string) ([]model.Document, error) {
	result := make([]model.Document, 0)
	for _, d := range m.docs {
		if d.BinderID == binderID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockDocumentRepo) GetDocument(ctx context.Context, ownerID, documentID string) (*model.Document, error) {
	for _, d := range m.docs {
		if d.ID != documentID {
			continue
		}
		if _, err := m.owners.GetBinder(ctx, ownerID, d.BinderID); err != nil {
			return nil, apperror.NotFound("document", documentID)
		}
		result := d
		return &result, nil
	}
	return nil, apperror.NotFound("document", documentID)
}

type mockBlobStore struct {
	blobs   map[string][]byte
	nextKey int
	failPut bool
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Put(_ context.Context, data []byte) (string, error) {
	if m.failPut {
		return "", errors.New("mock: blob write failed")
	}
	m.nextKey++
	key := fmt.Sprintf("2026/06/15/key-%d", m.nextKey)
	m.blobs[key] = append([]byte(nil), data...)
	return key, nil
}

func (m *mockBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, errors.New("mock: blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockBlobStore) Delete(_ context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
