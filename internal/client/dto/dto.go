package dto

import (
	"taskboard/internal/models/task"
)

type CreateTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     task.Date     `json:"due_date"`
	Priority    task.Priority `json:"priority"`
	Category    task.Category `json:"category"`
}

// UpdateTaskRequest carries only the fields being changed; nil fields are omitted.
// A non-nil DueDate pointing at the zero Date clears the due date (sent as null).
type UpdateTaskRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *task.Status   `json:"status,omitempty"`
	DueDate     *task.Date     `json:"due_date,omitempty"`
	Priority    *task.Priority `json:"priority,omitempty"`
	Category    *task.Category `json:"category,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func CreateFromDraft(d task.Draft) CreateTaskRequest {
	return CreateTaskRequest{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Category:    d.Category,
	}
}

func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil &&
		r.DueDate == nil && r.Priority == nil && r.Category == nil
}
