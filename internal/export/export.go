// Package export renders tasks as downloadable CSV or JSON documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"taskboard/internal/models/task"
)

type Format string

const FormatCSV Format = "csv"
const FormatJSON Format = "json"

const NoDueDate = "No due date"

var csvHeader = []string{"ID", "Title", "Description", "Due Date", "Priority", "Category", "Status"}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName is the artifact name for the format: tasks.csv or tasks.json.
func (f Format) FileName() string {
	return "tasks." + string(f)
}

func Render(tasks []task.Task, format Format) ([]byte, string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = CSV(tasks)
	case FormatJSON:
		data, err = JSON(tasks)
	default:
		return nil, "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, "", err
	}
	return data, format.FileName(), nil
}

// CSV writes a header row and one record per task, separated by newlines with
// none after the last record. Fields containing commas, quotes or newlines, or
// starting with a space, are quoted; every other field is written as is.
func CSV(tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, t := range tasks {
		due := t.DueDate.String()
		if t.DueDate.IsZero() {
			due = NoDueDate
		}
		record := []string{
			t.ID.String(),
			t.Title,
			t.Description,
			due,
			string(t.Priority),
			string(t.Category),
			string(t.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv task %s: %w", t.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// JSON is the two-space indented array of the tasks with their history.
func JSON(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return data, nil
}
