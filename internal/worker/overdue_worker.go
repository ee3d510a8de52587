package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/models/task"

	"go.uber.org/zap"
)

const defaultInterval = 5 * time.Minute

// Board is the part of the view-model the watcher needs.
type Board interface {
	Load(ctx context.Context) error
	Tasks() []task.Task
	IsOverdue(task.Task) bool
}

type Notifier interface {
	Notify(message string)
}

// OverdueWorker periodically reloads the board and announces pending tasks
// that have become overdue. Each task is announced once until its due date or
// status changes.
type OverdueWorker struct {
	board    Board
	notifier Notifier
	interval time.Duration

	mtx       sync.Mutex
	announced map[task.ID]task.Date
}

func NewOverdueWorker(board Board, notifier Notifier, interval *time.Duration) *OverdueWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	return &OverdueWorker{
		board:     board,
		notifier:  notifier,
		interval:  intervalToSet,
		announced: make(map[task.ID]task.Date),
	}
}

// Interval is the time between checks, after the default is applied.
func (w *OverdueWorker) Interval() time.Duration {
	return w.interval
}

// Start checks once immediately and then on every tick until ctx is done.
func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Overdue watcher stopped")
			return
		}
	}
}

// Check reloads the board and returns the tasks announced by this run.
// A failed reload is logged and the cached tasks are checked instead.
func (w *OverdueWorker) Check(ctx context.Context) []task.Task {
	start := time.Now()

	if err := w.board.Load(ctx); err != nil {
		logger.Warn("Worker: Reload failed, checking cached tasks", zap.Error(err))
	}

	tasks := w.board.Tasks()
	var fresh []task.Task

	w.mtx.Lock()
	seen := make(map[task.ID]struct{}, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() || !w.board.IsOverdue(t) {
			continue
		}
		seen[t.ID] = struct{}{}
		if due, ok := w.announced[t.ID]; ok && due == t.DueDate {
			continue
		}
		w.announced[t.ID] = t.DueDate
		fresh = append(fresh, t)
	}
	for id := range w.announced {
		if _, ok := seen[id]; !ok {
			delete(w.announced, id)
		}
	}
	w.mtx.Unlock()

	for _, t := range fresh {
		w.notifier.Notify(fmt.Sprintf("Task %s %q is overdue (due %s)", t.ID, t.Title, t.DueDate))
	}

	logger.Info("Worker: Overdue check finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("overdue", len(fresh)))
	return fresh
}
