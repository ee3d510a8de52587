package viewmodel

import (
	"fmt"
	"strings"

	"taskboard/internal/models/task"
)

type Filter string

const FilterAll Filter = "all"
const FilterPending Filter = "pending"
const FilterCompleted Filter = "completed"

func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", task.NewValidationError("filter", fmt.Sprintf("unknown filter %q", s))
}

type Theme string

const ThemeLight Theme = "light"
const ThemeDark Theme = "dark"

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight, "":
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", task.NewValidationError("theme", fmt.Sprintf("unknown theme %q", s))
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Derive restricts tasks by status (all passes everything through), then keeps
// those whose title or description contains query, ignoring case.
// The input is not modified.
func Derive(tasks []task.Task, filter Filter, query string) []task.Task {
	needle := strings.ToLower(query)
	res := []task.Task{}

	for _, t := range tasks {
		switch filter {
		case FilterPending:
			if t.Status != task.StatusPending {
				continue
			}
		case FilterCompleted:
			if t.Status != task.StatusCompleted {
				continue
			}
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}

		res = append(res, t.Clone())
	}
	return res
}
