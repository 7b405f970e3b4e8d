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

// compile-time check that *DB implements repository.TaskRepository
var _ repository.TaskRepository = (*DB)(nil)

func (db *DB) CreateTask(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	task.Status = model.TaskOpen
	task.CreatedAt = time.Now()

	var due any
	if task.DueDate != nil {
		due = task.DueDate.String()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, binder_id, title, description, status, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.BinderID,
		task.Title,
		task.Description,
		task.Status,
		due,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task: %w", err)
	}
	return nil
}

func (db *DB) ListTasks(ctx context.Context, binderID string) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, binder_id, title, description, status, due_date, created_at, completed_at
		 FROM tasks WHERE binder_id = ? ORDER BY id`,
		binderID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}
	return tasks, nil
}

// GetTask resolves a task through its parent binder's ownership. A task in
// someone else's binder is NotFound, same as a task that does not exist.
func (db *DB) GetTask(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT t.id, t.binder_id, t.title, t.description, t.status, t.due_date, t.created_at, t.completed_at
		 FROM tasks t
		 JOIN binders b ON b.id = t.binder_id
		 WHERE t.id = ? AND b.owner_id = ?`,
		taskID, ownerID,
	)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", taskID)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", taskID, err)
	}
	return t, nil
}

// CompleteTask writes done + completedAt only while the task is still open,
// so a second completion leaves the original timestamp untouched.
func (db *DB) CompleteTask(ctx context.Context, taskID string, completedAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE tasks SET status = ?, completed_at = ?
		 WHERE id = ? AND status = ?`,
		model.TaskDone, completedAt, taskID, model.TaskOpen,
	)
	if err != nil {
		return fmt.Errorf("sqlite: completing task %s: %w", taskID, err)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*model.Task, error) {
	var (
		t         model.Task
		due       sql.NullString
		completed sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.BinderID,
		&t.Title,
		&t.Description,
		&t.Status,
		&due,
		&t.CreatedAt,
		&completed,
	)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d, err := model.ParseDate(due.String)
		if err != nil {
			return nil, fmt.Errorf("sqlite: task %s has malformed due_date: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	if completed.Valid {
		ts := completed.Time
		t.CompletedAt = &ts
	}
	return &t, nil
}
