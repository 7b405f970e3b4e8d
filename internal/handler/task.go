package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/service"
)

type createTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     *model.Date `json:"dueDate"` // "YYYY-MM-DD", omit or null for no due date
}

// HandleCreateTask creates an open task in a binder.
//
// POST /api/binders/{binderID}/tasks
func (h *BinderHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	task, err := h.svc.CreateTask(r.Context(), userID, chi.URLParam(r, "binderID"), req.Title, req.Description, req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleListTasks returns a binder's tasks with their derived overdue flag.
//
// GET /api/binders/{binderID}/tasks
func (h *BinderHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.svc.ListTasks(r.Context(), userID, chi.URLParam(r, "binderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []service.TaskView{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleCompleteTask marks a task done. Repeating the call on a done task
// returns 200 with the unchanged task.
//
// POST /api/tasks/{taskID}/done
func (h *BinderHandler) HandleCompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	task, err := h.svc.CompleteTask(r.Context(), userID, chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
