package task

import (
	"fmt"
	"strings"
)

// Draft is a task being composed in a create or edit form. ID is set only when editing.
type Draft struct {
	ID          ID
	Title       string
	Description string
	DueDate     Date
	Priority    Priority
	Category    Category
}

func NewDraft() Draft {
	return Draft{
		Priority: PriorityMedium,
		Category: CategoryUncategorized,
	}
}

func DraftFromTask(t Task) Draft {
	return Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
	}
}

func (d Draft) IsEdit() bool {
	return !d.ID.IsZero()
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", "required")
	}
	if _, err := ParseDate(string(d.DueDate)); err != nil {
		return err
	}
	if d.Priority != "" {
		if _, err := ParsePriority(string(d.Priority)); err != nil {
			return err
		}
	}
	if d.Category != "" {
		if _, err := ParseCategory(string(d.Category)); err != nil {
			return err
		}
	}
	return nil
}

// Normalized fills empty enums with their defaults and canonicalizes spelling.
// Call it on a draft that passed Validate.
func (d Draft) Normalized() Draft {
	if p, err := ParsePriority(string(d.Priority)); err == nil {
		d.Priority = p
	} else {
		d.Priority = PriorityMedium
	}
	if c, err := ParseCategory(string(d.Category)); err == nil {
		d.Category = c
	} else {
		d.Category = CategoryUncategorized
	}
	return d
}

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[VALIDATION_ERROR] invalid %s: %s", e.Field, e.Reason)
}
