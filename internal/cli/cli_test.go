package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/cli"
	"taskboard/internal/config"
	"taskboard/internal/models/task"
	"taskboard/internal/remotetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	server     *remotetest.Server
	configPath string
	dir        string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	server := remotetest.NewServer()
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.API.BaseURL = server.URL
	cfg.Logging.Level = "fatal"
	cfg.Export.Dir = dir

	path := filepath.Join(dir, "config.yml")
	require.NoError(t, config.Save(path, cfg))

	return &harness{server: server, configPath: path, dir: dir}
}

func (h *harness) run(args ...string) (string, string, error) {
	return h.runContext(context.Background(), args...)
}

func (h *harness) runContext(ctx context.Context, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test", &out, &errOut)
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("add", "--title", "Buy milk", "-d", "2 litres", "--due", "2030-01-01", "-p", "high", "--category", "shopping")
	require.NoError(t, err)
	assert.Equal(t, "Created task 1: Buy milk\n", out)

	stored := h.server.Tasks()
	require.Len(t, stored, 1)
	assert.Equal(t, task.PriorityHigh, stored[0].Priority)
	assert.Equal(t, task.CategoryShopping, stored[0].Category)
	assert.Equal(t, task.Date("2030-01-01"), stored[0].DueDate)

	out, _, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "2 litres")
	assert.Contains(t, out, "2030-01-01")
}

func TestAdd_EmptyTitle(t *testing.T) {
	h := newHarness(t)

	_, errOut, err := h.run("add", "-d", "no title")
	require.Error(t, err)
	assert.Contains(t, errOut, "! Task title is required!")
	assert.Equal(t, 0, h.server.RequestCount(http.MethodPost))
}

func TestList_FilterAndSearch(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(
		task.Task{Title: "Buy milk", Status: task.StatusPending, Priority: task.PriorityLow, Category: task.CategoryShopping},
		task.Task{Title: "Send report", Status: task.StatusCompleted, Priority: task.PriorityHigh, Category: task.CategoryWork},
	)

	out, _, err := h.run("list", "--filter", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Send report")
	assert.NotContains(t, out, "Buy milk")

	out, _, err = h.run("list", "-s", "MILK")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Send report")

	out, _, err = h.run("list", "-s", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	_, _, err = h.run("list", "--filter", "archived")
	assert.Error(t, err)
}

func TestList_OverdueAndNoDueDate(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(
		task.Task{Title: "Late", Status: task.StatusPending, DueDate: "2001-01-01"},
		task.Task{Title: "Whenever", Status: task.StatusPending},
	)

	out, _, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "2001-01-01 (overdue)")
	assert.Contains(t, out, "No due date")
}

func TestComplete(t *testing.T) {
	h := newHarness(t)
	seeded := h.server.Seed(task.Task{Title: "Write report", Status: task.StatusPending})

	out, _, err := h.run("complete", seeded[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Completed task 1\n", out)
	assert.Equal(t, task.StatusCompleted, h.server.Tasks()[0].Status)

	req, ok := h.server.LastRequest(http.MethodPut)
	require.True(t, ok)
	assert.JSONEq(t, `{"status": "completed"}`, string(req.Body))
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(task.Task{Title: "Write report", Status: task.StatusCompleted})

	out, errOut, err := h.run("complete", "1")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "! Task is already completed.")
	assert.Equal(t, 0, h.server.RequestCount(http.MethodPut))
	assert.Empty(t, h.server.Tasks()[0].History)
}

func TestComplete_ServerFailure(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(task.Task{Title: "Write report", Status: task.StatusPending})
	h.server.FailNext(http.MethodPut, http.StatusInternalServerError)

	_, errOut, err := h.run("complete", "1")
	require.Error(t, err)
	assert.Contains(t, errOut, "! Failed to update task status. Please try again later.")
	assert.Equal(t, task.StatusPending, h.server.Tasks()[0].Status)
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(task.Task{Title: "Call mom", Description: "Sunday", Status: task.StatusPending,
		DueDate: "2030-05-05", Priority: task.PriorityLow, Category: task.CategoryPersonal})

	out, _, err := h.run("edit", "1", "--title", "Call mom tonight", "--clear-due")
	require.NoError(t, err)
	assert.Equal(t, "Updated task 1\n", out)

	stored := h.server.Tasks()[0]
	assert.Equal(t, "Call mom tonight", stored.Title)
	assert.Equal(t, "Sunday", stored.Description)
	assert.True(t, stored.DueDate.IsZero())
	assert.Equal(t, task.PriorityLow, stored.Priority)
	assert.Equal(t, task.StatusPending, stored.Status)
}

func TestEdit_UnknownTask(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("edit", "42", "--title", "x")
	require.Error(t, err)
	assert.Equal(t, 0, h.server.RequestCount(http.MethodPut))
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(task.Task{Title: "a"}, task.Task{Title: "b"})

	out, _, err := h.run("rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted task 1\n", out)

	remaining := h.server.Tasks()
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Title)

	_, errOut, err := h.run("delete", "1")
	require.Error(t, err)
	assert.Contains(t, errOut, "! Failed to delete task. Please try again later.")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.server.Seed(task.Task{Title: "A", Status: task.StatusPending, Priority: task.PriorityLow, Category: task.CategoryWork})

	out, _, err := h.run("export")
	require.NoError(t, err)
	path := filepath.Join(h.dir, "tasks.csv")
	assert.Equal(t, "Exported 1 tasks to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Title,Description,Due Date,Priority,Category,Status\n1,A,,No due date,Low,Work,pending", string(data))

	other := t.TempDir()
	_, _, err = h.run("export", "-f", "json", "-o", other)
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(other, "tasks.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n"))
}

func TestWatch_ReportsEffectiveInterval(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, _, err := h.runContext(ctx, "watch", "--interval", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "every 5m0s")

	out, _, err = h.runContext(ctx, "watch", "-i", "30s")
	require.NoError(t, err)
	assert.Contains(t, out, "every 30s")
}

func TestTheme(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "Theme: light\n", out)

	out, _, err = h.run("theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "Theme: dark\n", out)

	cfg, err := config.Load(h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)

	out, _, err = h.run("theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "Theme: light\n", out)

	_, _, err = h.run("theme", "neon")
	assert.Error(t, err)
}
