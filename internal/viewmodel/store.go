// Package viewmodel holds the client-side state of the task board: a cache
// mirrored from the remote store, the create and edit drafts, and the
// parameters of the derived view.
//
// Every mutation waits for the remote store and then patches the cache with
// the server's representation. Overlapping requests are not ordered; the
// last one to complete wins.
package viewmodel

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"taskboard/internal/client/dto"
	"taskboard/internal/export"
	"taskboard/internal/logger"
	"taskboard/internal/models/task"

	"go.uber.org/zap"
)

type TaskAPI interface {
	List(context.Context) ([]task.Task, error)
	Create(context.Context, dto.CreateTaskRequest) (*task.Task, error)
	Update(context.Context, task.ID, ...dto.UpdateOption) (*task.Task, error)
	Delete(context.Context, task.ID) error
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}

type Store struct {
	api      TaskAPI
	notifier Notifier
	now      func() time.Time

	mtx     sync.RWMutex
	tasks   []task.Task
	loading int
	draft   task.Draft
	editing *task.Draft
	filter  Filter
	search  string
	theme   Theme
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithTheme(theme Theme) Option {
	return func(s *Store) {
		s.theme = theme
	}
}

func New(api TaskAPI, notifier Notifier, options ...Option) *Store {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	s := &Store{
		api:      api,
		notifier: notifier,
		now:      time.Now,
		tasks:    []task.Task{},
		draft:    task.NewDraft(),
		filter:   FilterAll,
		theme:    ThemeLight,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Load replaces the cache with the remote collection. On failure the previous
// cache is kept.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()
	s.beginLoad()
	defer s.endLoad()

	tasks, err := s.api.List(ctx)
	if err != nil {
		return s.fail("load", msgLoadFailed, err)
	}

	cache := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		cache = append(cache, t.Clone())
	}

	s.mtx.Lock()
	s.tasks = cache
	s.mtx.Unlock()

	logger.Info("ViewModel: Tasks loaded",
		zap.Int("count", len(cache)),
		zap.Duration("ms", time.Since(start)))
	return nil
}

// Create submits the create draft. An invalid draft is rejected without
// contacting the remote store. The draft is reset only on success.
func (s *Store) Create(ctx context.Context) error {
	draft := s.Draft()
	if err := draft.Validate(); err != nil {
		return s.reject("create", err)
	}

	created, err := s.api.Create(ctx, dto.CreateFromDraft(draft.Normalized()))
	if err != nil {
		return s.fail("create", msgCreateFailed, err)
	}

	s.mtx.Lock()
	s.tasks = append(s.tasks, created.Clone())
	s.draft = task.NewDraft()
	s.mtx.Unlock()

	logger.Info("ViewModel: Task created", zap.String("task_id", created.ID.String()))
	return nil
}

// SetStatus sends a status-only update. The cache keeps the old status until
// the server answers.
func (s *Store) SetStatus(ctx context.Context, id task.ID, status task.Status) error {
	parsed, err := task.ParseStatus(string(status))
	if err != nil {
		return s.reject("set_status", err)
	}

	updated, err := s.api.Update(ctx, id, dto.WithStatus(parsed))
	if err != nil {
		return s.fail("set_status", msgStatusFailed, err, zap.String("task_id", id.String()))
	}

	s.replace(*updated)
	logger.Info("ViewModel: Task status updated",
		zap.String("task_id", updated.ID.String()),
		zap.String("status", string(updated.Status)))
	return nil
}

// Complete marks a pending task completed. A task the cache already holds as
// completed is not sent again.
func (s *Store) Complete(ctx context.Context, id task.ID) error {
	if cached, ok := s.Task(id); ok && cached.IsCompleted() {
		logger.Info("ViewModel: Task already completed", zap.String("task_id", id.String()))
		s.notifier.Notify(msgCompleted)
		return &OperationError{Op: "complete", Message: msgCompleted, Err: ErrAlreadyCompleted}
	}
	return s.SetStatus(ctx, id, task.StatusCompleted)
}

// BeginEdit seeds the edit draft from the cached task.
func (s *Store) BeginEdit(id task.ID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return &OperationError{Op: "begin_edit", Message: "Task not found.", Err: ErrNotFound}
	}
	d := task.DraftFromTask(s.tasks[idx])
	s.editing = &d
	return nil
}

// SetEditDraft replaces the fields of the draft being edited. The task id
// cannot be changed.
func (s *Store) SetEditDraft(d task.Draft) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.editing == nil {
		return &OperationError{Op: "set_edit_draft", Message: msgNoEdit, Err: ErrNoEdit}
	}
	d.ID = s.editing.ID
	s.editing = &d
	return nil
}

func (s *Store) EditDraft() (task.Draft, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.editing == nil {
		return task.Draft{}, false
	}
	return *s.editing, true
}

func (s *Store) CancelEdit() {
	s.mtx.Lock()
	s.editing = nil
	s.mtx.Unlock()
}

// Edit submits the full edit draft. On success the cache entry is replaced and
// the edit is closed; on failure both stay as they were.
func (s *Store) Edit(ctx context.Context) error {
	draft, ok := s.EditDraft()
	if !ok {
		s.notifier.Notify(msgNoEdit)
		return &OperationError{Op: "edit", Message: msgNoEdit, Err: ErrNoEdit}
	}
	if err := draft.Validate(); err != nil {
		return s.reject("edit", err)
	}

	updated, err := s.api.Update(ctx, draft.ID, dto.FromDraft(draft.Normalized())...)
	if err != nil {
		return s.fail("edit", msgEditFailed, err, zap.String("task_id", draft.ID.String()))
	}

	s.replace(*updated)

	s.mtx.Lock()
	if s.editing != nil && s.editing.ID.Matches(draft.ID) {
		s.editing = nil
	}
	s.mtx.Unlock()

	logger.Info("ViewModel: Task edited", zap.String("task_id", updated.ID.String()))
	return nil
}

// Delete removes the task from the cache once the remote store accepted the
// request. Any failure, including a non-success status, leaves the cache as is.
func (s *Store) Delete(ctx context.Context, id task.ID) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail("delete", msgDeleteFailed, err, zap.String("task_id", id.String()))
	}

	s.mtx.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	}
	s.mtx.Unlock()

	logger.Info("ViewModel: Task deleted", zap.String("task_id", id.String()))
	return nil
}

// Export writes the whole cache, not the filtered view, into dir and returns
// the file path.
func (s *Store) Export(dir string, format export.Format) (string, error) {
	data, name, err := export.Render(s.Tasks(), format)
	if err != nil {
		return "", s.fail("export", msgExportFailed, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", s.fail("export", msgExportFailed, err, zap.String("path", path))
	}

	logger.Info("ViewModel: Tasks exported", zap.String("path", path), zap.String("format", string(format)))
	return path, nil
}

func (s *Store) Tasks() []task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		res[i] = t.Clone()
	}
	return res
}

func (s *Store) Task(id task.ID) (task.Task, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return task.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// View is the cache restricted by the current filter and search query.
func (s *Store) View() []task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return Derive(s.tasks, s.filter, s.search)
}

func (s *Store) IsOverdue(t task.Task) bool {
	return t.IsOverdue(s.now())
}

// Loading reports whether any Load is in flight.
func (s *Store) Loading() bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.loading > 0
}

func (s *Store) Draft() task.Draft {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.draft
}

func (s *Store) SetDraft(d task.Draft) {
	d.ID = task.ID{}
	s.mtx.Lock()
	s.draft = d
	s.mtx.Unlock()
}

func (s *Store) Filter() Filter {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.filter
}

func (s *Store) SetFilter(f Filter) error {
	parsed, err := ParseFilter(string(f))
	if err != nil {
		return err
	}
	s.mtx.Lock()
	s.filter = parsed
	s.mtx.Unlock()
	return nil
}

func (s *Store) Search() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.search
}

func (s *Store) SetSearch(query string) {
	s.mtx.Lock()
	s.search = query
	s.mtx.Unlock()
}

func (s *Store) Theme() Theme {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.theme
}

func (s *Store) ToggleTheme() Theme {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.theme = s.theme.Toggle()
	return s.theme
}

func (s *Store) beginLoad() {
	s.mtx.Lock()
	s.loading++
	s.mtx.Unlock()
}

func (s *Store) endLoad() {
	s.mtx.Lock()
	s.loading--
	s.mtx.Unlock()
}

// replace swaps the cached entry with the same id. A task that is no longer
// cached is not re-added.
func (s *Store) replace(t task.Task) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	idx := s.indexOf(t.ID)
	if idx < 0 {
		logger.Warn("ViewModel: Updated task is not cached", zap.String("task_id", t.ID.String()))
		return false
	}
	s.tasks[idx] = t.Clone()
	return true
}

// indexOf must be called with mtx held.
func (s *Store) indexOf(id task.ID) int {
	for i := range s.tasks {
		if s.tasks[i].ID.Matches(id) {
			return i
		}
	}
	return -1
}

func (s *Store) fail(op, message string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("operation", op))
	logger.Error("ViewModel: Remote store request failed", err, fields...)
	s.notifier.Notify(message)
	return &OperationError{Op: op, Message: message, Err: err}
}

func (s *Store) reject(op string, err error) error {
	message := validationMessage(err)
	logger.Warn("ViewModel: Validation failed",
		zap.String("operation", op),
		zap.Error(err))
	s.notifier.Notify(message)
	return &OperationError{Op: op, Message: message, Err: err}
}
