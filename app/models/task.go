package models

import "time"

// Task represents a to-do item. ParentPrompt is set only for AI-generated tasks.
type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Completed     bool      `json:"completed"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	CreatedAt     time.Time `json:"created_at"`
	ParentPrompt  *string   `json:"parent_prompt"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title *string `json:"title"`
}

// UpdateTaskRequest is the body of PUT /tasks/{taskID}. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Completed *bool   `json:"completed"`
	Title     *string `json:"title"`
}

// GenerateRequest is the body of POST /tasks/generate.
type GenerateRequest struct {
	Prompt *string `json:"prompt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
