package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"todo-ai/app/models"
	"todo-ai/app/observability"
	"todo-ai/app/services"

	"github.com/gorilla/mux"
)

const (
	msgTaskNotFound   = "Task not found"
	msgInvalidPayload = "Invalid request payload"
	msgTaskDeleted    = "Task deleted successfully"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service  *services.TaskService
	Expander services.Expander
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, expander services.Expander, metrics *observability.Metrics, logger *slog.Logger) *TaskController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskController{Service: service, Expander: expander, Metrics: metrics, Logger: logger}
}

// GetTasks handles GET /tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.Service.ListTasks())
}

// CreateTask handles POST /tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		c.writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	if req.Title == nil {
		c.writeError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}

	c.writeJSON(w, http.StatusOK, c.Service.CreateTask(*req.Title, false, nil))
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, ok := c.Service.GetTask(mux.Vars(r)["taskID"])
	if !ok {
		c.writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}
	c.writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	var updates models.UpdateTaskRequest
	if err := decodeJSON(r, &updates); err != nil {
		c.writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	task, ok := c.Service.UpdateTask(taskID, updates)
	if !ok {
		c.writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}
	c.writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if !c.Service.DeleteTask(mux.Vars(r)["taskID"]) {
		c.writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}
	c.writeJSON(w, http.StatusOK, models.MessageResponse{Message: msgTaskDeleted})
}

// GenerateTasks handles POST /tasks/generate.
func (c *TaskController) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		c.writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	if req.Prompt == nil {
		c.writeError(w, http.StatusUnprocessableEntity, "prompt is required")
		return
	}
	prompt := *req.Prompt

	// A started generation runs to completion even if the client goes away.
	titles, err := c.Expander.Expand(context.WithoutCancel(r.Context()), prompt)
	if err != nil {
		c.Logger.Error("expand prompt", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to generate tasks")
		return
	}

	created := make([]models.Task, 0, len(titles))
	for _, title := range titles {
		created = append(created, c.Service.CreateTask(title, true, &prompt))
	}
	c.Metrics.AddGenerated(len(created))
	c.Logger.Debug("generated tasks", "count", len(created))

	c.writeJSON(w, http.StatusOK, created)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

func (c *TaskController) writeJSON(w http.ResponseWriter, status int, v any) {
	encodeJSON(c.Logger, w, status, v)
}

func (c *TaskController) writeError(w http.ResponseWriter, status int, detail string) {
	c.writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

func encodeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("encode response", "status", status, "error", err)
	}
}
