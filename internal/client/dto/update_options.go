package dto

import "taskboard/internal/models/task"

// UpdateOption sets one field of a partial update.
type UpdateOption func(*UpdateTaskRequest)

func WithTitle(title string) UpdateOption {
	return func(r *UpdateTaskRequest) {
		r.Title = &title
	}
}

func WithDescription(description string) UpdateOption {
	return func(r *UpdateTaskRequest) {
		r.Description = &description
	}
}

func WithStatus(status task.Status) UpdateOption {
	if status == "" {
		return nil
	}
	return func(r *UpdateTaskRequest) {
		r.Status = &status
	}
}

// WithDueDate with the zero Date clears the due date.
func WithDueDate(date task.Date) UpdateOption {
	return func(r *UpdateTaskRequest) {
		r.DueDate = &date
	}
}

func WithPriority(priority task.Priority) UpdateOption {
	if priority == "" {
		return nil
	}
	return func(r *UpdateTaskRequest) {
		r.Priority = &priority
	}
}

func WithCategory(category task.Category) UpdateOption {
	if category == "" {
		return nil
	}
	return func(r *UpdateTaskRequest) {
		r.Category = &category
	}
}

// FromDraft returns the full field set of an edit draft.
func FromDraft(d task.Draft) []UpdateOption {
	return []UpdateOption{
		WithTitle(d.Title),
		WithDescription(d.Description),
		WithDueDate(d.DueDate),
		WithPriority(d.Priority),
		WithCategory(d.Category),
	}
}

// BuildUpdate applies options in order; nil options are skipped.
func BuildUpdate(options ...UpdateOption) UpdateTaskRequest {
	var r UpdateTaskRequest
	for _, opt := range options {
		if opt != nil {
			opt(&r)
		}
	}
	return r
}
