package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Task struct {
	ID          ID             `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      Status         `json:"status"`
	DueDate     Date           `json:"due_date"`
	Priority    Priority       `json:"priority"`
	Category    Category       `json:"category"`
	History     []HistoryEntry `json:"history"`
}

// ID is assigned by the remote store. It remembers whether the store sent it
// as a JSON number so it is written back in the same form.
type ID struct {
	value   string
	numeric bool
}

// NewID is an id in string form.
func NewID(s string) ID {
	return ID{value: s}
}

func IntID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

// ParseID reads an id typed by a user or taken from a URL. Canonical integers
// such as "42" are numeric; "007" and "+5" stay strings.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return ID{value: s, numeric: true}
	}
	return ID{value: s}
}

func (id ID) String() string {
	return id.value
}

func (id ID) IsZero() bool {
	return id.value == ""
}

func (id ID) IsNumeric() bool {
	return id.numeric
}

// Matches compares the text of two ids, ignoring their wire form.
func (id ID) Matches(other ID) bool {
	return id.value == other.value
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ID{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = NewID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

type Status string
type Priority string
type Category string

const StatusPending Status = "pending"
const StatusCompleted Status = "completed"

const PriorityLow Priority = "Low"
const PriorityMedium Priority = "Medium"
const PriorityHigh Priority = "High"

const CategoryWork Category = "Work"
const CategoryPersonal Category = "Personal"
const CategoryShopping Category = "Shopping"
const CategoryUncategorized Category = "Uncategorized"

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
var categories = []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryUncategorized}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown status %q", s))
}

// ParsePriority matches case-insensitively and returns the canonical spelling.
func ParsePriority(s string) (Priority, error) {
	for _, p := range priorities {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", NewValidationError("priority", fmt.Sprintf("unknown priority %q", s))
}

func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", NewValidationError("category", fmt.Sprintf("unknown category %q", s))
}

// IsOverdue reports whether the due date lies strictly before the calendar date of now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate.IsZero() {
		return false
	}
	return t.DueDate < Today(now)
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Clone copies the task including its history slice.
func (t Task) Clone() Task {
	if t.History != nil {
		history := make([]HistoryEntry, len(t.History))
		copy(history, t.History)
		t.History = history
	}
	return t
}
