// Package stats reduces a set of tasks and documents into the summary counts
// used by the dashboard, the inspection report, and the metrics endpoint.
package stats

import (
	"time"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/status"
)

// Summary holds aggregate counts over a task/document set. The three task
// buckets partition the set: every task is exactly one of done,
// open-not-overdue, or open-overdue, so TasksOpen+TasksDone == TasksTotal and
// TasksOverdue <= TasksOpen always hold.
type Summary struct {
	TasksTotal     int   `json:"tasksTotal"`
	TasksOpen      int   `json:"tasksOpen"`
	TasksDone      int   `json:"tasksDone"`
	TasksOverdue   int   `json:"tasksOverdue"`
	DocumentsTotal int   `json:"documentsTotal"`
	StorageBytes   int64 `json:"storageBytes"`
}

// Aggregate computes the Summary for tasks and docs as of now. The same now
// is applied to every task so one snapshot can't straddle a day boundary.
// Empty (or nil) inputs yield the zero Summary.
func Aggregate(tasks []model.Task, docs []model.Document, now time.Time) Summary {
	var s Summary
	for i := range tasks {
		s.TasksTotal++
		obs := status.Derive(&tasks[i], now)
		if obs.Status == model.TaskDone {
			s.TasksDone++
			continue
		}
		s.TasksOpen++
		if obs.Overdue {
			s.TasksOverdue++
		}
	}
	for i := range docs {
		s.DocumentsTotal++
		s.StorageBytes += docs[i].Size
	}
	return s
}
