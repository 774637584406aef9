package web

import (
	"errors"
	"net/http"
	"time"

	"genesis/internal/application/orchestrators"
	"genesis/internal/domain/audit"
)

func taskDeps() orchestrators.TaskDeps {
	return orchestrators.TaskDeps{
		TaskStore:    stores.TaskStore,
		AccountStore: stores.AccountStore,
	}
}

// handleTasks renders the task list and accepts new tasks (GET/POST /tasks).
func handleTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		includeCompleted := r.URL.Query().Get("all") == "true"
		tasks, err := stores.TaskStore.ListByAssignee(ctx, actor.Username, includeCompleted)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "tasks.html", map[string]any{
			"Tasks":            tasks,
			"IncludeCompleted": includeCompleted,
		})

	case "POST":
		assignee := r.FormValue("Assignee")
		if assignee == "" || !actor.IsAnyAdmin() {
			// Regular users only create tasks for themselves.
			assignee = actor.Username
		}
		input := orchestrators.CreateTaskInput{
			Assignee:    assignee,
			Title:       r.FormValue("Title"),
			Description: r.FormValue("Description"),
			Priority:    r.FormValue("Priority"),
			CreatedBy:   actor.Username,
		}
		if dueStr := r.FormValue("DueDate"); dueStr != "" {
			due, err := time.Parse("2006-01-02", dueStr)
			if err != nil {
				http.Error(w, "DueDate must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			input.DueDate = due
		}
		if _, err := orchestrators.ExecuteCreateTask(ctx, input, taskDeps()); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, orchestrators.ErrAssigneeNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		recordAudit(r, audit.CategoryTask, audit.ActionCreate, audit.SeverityInfo,
			"created task for "+input.Assignee)
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTaskMutation runs one mutation against a task identified by the
// TaskID form value, translating orchestrator errors to HTTP statuses.
func handleTaskMutation(w http.ResponseWriter, r *http.Request, action audit.Action, description string,
	run func(taskID string) error) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	taskID := r.FormValue("TaskID")
	if taskID == "" {
		http.Error(w, "TaskID is required", http.StatusBadRequest)
		return
	}
	if err := run(taskID); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, orchestrators.ErrNotTaskOwner) {
			status = http.StatusForbidden
		}
		http.Error(w, err.Error(), status)
		return
	}
	recordAudit(r, audit.CategoryTask, action, audit.SeverityInfo, description+" "+taskID)
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	handleTaskMutation(w, r, audit.ActionComplete, "completed task", func(taskID string) error {
		return orchestrators.ExecuteCompleteTask(r.Context(), taskID, actor, taskDeps())
	})
}

func handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	input := orchestrators.UpdateTaskInput{
		Title:       r.FormValue("Title"),
		Description: r.FormValue("Description"),
		Priority:    r.FormValue("Priority"),
		Status:      r.FormValue("Status"),
	}
	if dueStr := r.FormValue("DueDate"); dueStr != "" {
		due, err := time.Parse("2006-01-02", dueStr)
		if err != nil {
			http.Error(w, "DueDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		input.DueDate = due
	}
	handleTaskMutation(w, r, audit.ActionUpdate, "updated task", func(taskID string) error {
		input.TaskID = taskID
		return orchestrators.ExecuteUpdateTask(r.Context(), input, actor, taskDeps())
	})
}

func handleTaskReopen(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	handleTaskMutation(w, r, audit.ActionUpdate, "reopened task", func(taskID string) error {
		return orchestrators.ExecuteReopenTask(r.Context(), taskID, actor, taskDeps())
	})
}

func handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	handleTaskMutation(w, r, audit.ActionDelete, "deleted task", func(taskID string) error {
		return orchestrators.ExecuteDeleteTask(r.Context(), taskID, actor, taskDeps())
	})
}
