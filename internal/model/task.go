package model

import "time"

// TaskStatus is the persisted lifecycle state of a task. "Overdue" is NOT a
// status — it is derived at read time from DueDate and the current day, so it
// flips automatically as time passes without any write.
type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done" // terminal; there is no transition back to open
)

// Task is a checklist item inside a binder. DueDate is optional; a task with
// no due date is never overdue. CompletedAt is stamped exactly once, when the
// task transitions from open to done.
type Task struct {
	ID          string     `json:"id"                    db:"id"`
	BinderID    string     `json:"binderId"              db:"binder_id"`
	Title       string     `json:"title"                 db:"title"`
	Description string     `json:"description"           db:"description"`
	Status      TaskStatus `json:"status"                db:"status"`
	DueDate     *Date      `json:"dueDate,omitempty"     db:"due_date"`
	CreatedAt   time.Time  `json:"createdAt"             db:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}
