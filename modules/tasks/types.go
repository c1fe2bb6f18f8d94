package tasks

import (
	"time"
)

// CreateTaskRequest represents a create-task service request.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// TaskResponse represents a single task at the service boundary.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ListTasksRequest represents a list-tasks service request.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

// ListTasksResponse represents a list-tasks service response.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// GetTaskRequest represents a get-task service request.
type GetTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// UpdateTaskRequest represents an update-task service request.
// Nil fields are not part of the patch.
type UpdateTaskRequest struct {
	TaskID      string     `json:"task_id"`
	OwnerID     string     `json:"owner_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DeleteTaskRequest represents a delete-task service request.
type DeleteTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// DeleteTaskResponse represents a delete-task service response.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// StatsRequest represents a get-stats service request.
type StatsRequest struct {
	OwnerID string `json:"owner_id"`
}

// StatsResponse represents per-status task counts for one owner.
type StatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}
