package viewmodel

import (
	"errors"
	"fmt"

	"taskboard/internal/models/task"
)

var ErrNotFound = errors.New("task not found")
var ErrNoEdit = errors.New("no task is being edited")
var ErrAlreadyCompleted = errors.New("task is already completed")

const (
	msgTitleRequired = "Task title is required!"
	msgLoadFailed    = "Failed to fetch tasks. Please try again later."
	msgCreateFailed  = "Failed to add task. Please try again later."
	msgStatusFailed  = "Failed to update task status. Please try again later."
	msgEditFailed    = "Failed to edit task. Please try again later."
	msgDeleteFailed  = "Failed to delete task. Please try again later."
	msgExportFailed  = "Failed to export tasks."
	msgNoEdit        = "No task is being edited."
	msgCompleted     = "Task is already completed."
)

// OperationError ties a failure to the operation and the message shown to the user.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func validationMessage(err error) string {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		if verr.Field == "title" {
			return msgTitleRequired
		}
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Reason)
	}
	return err.Error()
}
