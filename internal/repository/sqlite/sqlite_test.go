package sqlite

// Shared helpers for the repository tests. ":memory:" gives every test its
// own throwaway database; t.Cleanup closes it when the test finishes.

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/compliance-binder/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "$2a$04$fakehash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestBinder(t *testing.T, db *DB, ownerID, name string) *model.Binder {
	t.Helper()
	binder := &model.Binder{OwnerID: ownerID, Name: name, Industry: "general"}
	if err := db.CreateBinder(context.Background(), binder); err != nil {
		t.Fatalf("failed to create test binder: %v", err)
	}
	return binder
}

func createTestTask(t *testing.T, db *DB, binderID, title string, due *model.Date) *model.Task {
	t.Helper()
	task := &model.Task{BinderID: binderID, Title: title, DueDate: due}
	if err := db.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

func createTestDocument(t *testing.T, db *DB, binderID, name, key string, size int64) *model.Document {
	t.Helper()
	doc := &model.Document{BinderID: binderID, OriginalName: name, StorageKey: key, Size: size}
	if err := db.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}
	return doc
}

func datePtr(year int, month time.Month, day int) *model.Date {
	d := model.NewDate(year, month, day)
	return &d
}
