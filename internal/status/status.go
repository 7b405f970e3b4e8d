// Package status computes the derived, observable state of a task.
//
// The overdue flag is never persisted. Every read boundary (task lists,
// statistics, the inspection report) calls Derive with an injected "now", so
// a task's overdue flag changes as time passes without any write, and tests
// can pin the clock.
package status

import (
	"time"

	"github.com/sakif/compliance-binder/internal/model"
)

// Observed is a task's state as seen by a client at a given instant.
type Observed struct {
	Status  model.TaskStatus
	Overdue bool
}

// Derive computes the observable status of t at now.
//
// Rules:
//   - done tasks are never overdue, regardless of due date
//   - an open task is overdue iff it has a due date strictly before now's
//     calendar day (day granularity — a task due today is not overdue)
//   - an open task with no due date is never overdue
func Derive(t *model.Task, now time.Time) Observed {
	if t.Status == model.TaskDone {
		return Observed{Status: model.TaskDone}
	}
	overdue := t.DueDate != nil && t.DueDate.Before(model.DateOf(now))
	return Observed{Status: model.TaskOpen, Overdue: overdue}
}
