package status

import (
	"testing"
	"time"

	"github.com/sakif/compliance-binder/internal/model"
)

// fixed reference instant: 2026-06-15 10:30 UTC
var now = time.Date(2026, time.June, 15, 10, 30, 0, 0, time.UTC)

func datePtr(year int, month time.Month, day int) *model.Date {
	d := model.NewDate(year, month, day)
	return &d
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		task        model.Task
		wantStatus  model.TaskStatus
		wantOverdue bool
	}{
		{
			name:        "open with due date yesterday is overdue",
			task:        model.Task{Status: model.TaskOpen, DueDate: datePtr(2026, time.June, 14)},
			wantStatus:  model.TaskOpen,
			wantOverdue: true,
		},
		{
			name:        "open due today is not overdue",
			task:        model.Task{Status: model.TaskOpen, DueDate: datePtr(2026, time.June, 15)},
			wantStatus:  model.TaskOpen,
			wantOverdue: false,
		},
		{
			name:        "open due in the future is not overdue",
			task:        model.Task{Status: model.TaskOpen, DueDate: datePtr(2026, time.July, 15)},
			wantStatus:  model.TaskOpen,
			wantOverdue: false,
		},
		{
			name:        "open with no due date is never overdue",
			task:        model.Task{Status: model.TaskOpen},
			wantStatus:  model.TaskOpen,
			wantOverdue: false,
		},
		{
			name:        "done with past due date is not overdue",
			task:        model.Task{Status: model.TaskDone, DueDate: datePtr(2020, time.January, 1)},
			wantStatus:  model.TaskDone,
			wantOverdue: false,
		},
		{
			name:        "done with no due date is not overdue",
			task:        model.Task{Status: model.TaskDone},
			wantStatus:  model.TaskDone,
			wantOverdue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(&tt.task, now)
			if got.Status != tt.wantStatus {
				t.Errorf("Derive() status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Overdue != tt.wantOverdue {
				t.Errorf("Derive() overdue = %v, want %v", got.Overdue, tt.wantOverdue)
			}
		})
	}
}

// A done task must report overdue=false for ANY evaluation time, even far in
// the future of its due date.
func TestDerive_DoneNeverOverdue(t *testing.T) {
	task := model.Task{Status: model.TaskDone, DueDate: datePtr(2026, time.June, 1)}

	for _, at := range []time.Time{
		now,
		now.AddDate(0, 0, 1),
		now.AddDate(1, 0, 0),
		now.AddDate(10, 0, 0),
	} {
		if got := Derive(&task, at); got.Overdue {
			t.Errorf("Derive() at %v: done task reported overdue", at)
		}
	}
}

// Sub-day behavior: the comparison is per calendar day, so a task due
// yesterday is overdue at 00:00 today just as it is at 23:59.
func TestDerive_CalendarDayBoundary(t *testing.T) {
	task := model.Task{Status: model.TaskOpen, DueDate: datePtr(2026, time.June, 14)}

	midnight := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	if got := Derive(&task, midnight); !got.Overdue {
		t.Error("task due yesterday should be overdue at midnight today")
	}

	endOfDueDay := time.Date(2026, time.June, 14, 23, 59, 59, 0, time.UTC)
	if got := Derive(&task, endOfDueDay); got.Overdue {
		t.Error("task should not be overdue before its due day ends")
	}
}
