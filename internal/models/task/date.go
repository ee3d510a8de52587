package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The empty value means no due date.
// Lexicographic order of two dates equals their chronological order.
type Date string

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", NewValidationError("due_date", fmt.Sprintf("expected YYYY-MM-DD, got %q", s))
	}
	return Date(s), nil
}

func Today(now time.Time) Date {
	return Date(now.Format(DateLayout))
}

func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) String() string {
	return string(d)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("due_date: %w", err)
	}
	*d = Date(strings.TrimSpace(s))
	return nil
}
