package remotetest

import (
	"strconv"
	"sync"
	"time"

	"taskboard/internal/models/task"
)

// historyLayout matches the zone-less ISO timestamps of the reference store.
const historyLayout = "2006-01-02T15:04:05.000000"

type storage struct {
	mtx    sync.RWMutex
	tasks  map[string]*task.Task
	ids    []string
	nextID int64
	now    func() time.Time
}

func newStorage() *storage {
	return &storage{
		tasks:  make(map[string]*task.Task),
		ids:    []string{},
		nextID: 1,
		now:    time.Now,
	}
}

func (s *storage) stamp(action string) task.HistoryEntry {
	return task.HistoryEntry{
		Action:    action,
		Timestamp: task.ParseTimestamp(s.now().Format(historyLayout)),
	}
}

func (s *storage) list() []task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.tasks[id].Clone())
	}
	return res
}

// create assigns the next id and the initial "created" history entry.
func (s *storage) create(t task.Task) task.Task {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t.ID = task.IntID(s.nextID)
	s.nextID++
	t.History = []task.HistoryEntry{s.stamp("created")}

	stored := t.Clone()
	s.tasks[t.ID.String()] = &stored
	s.ids = append(s.ids, t.ID.String())
	return t
}

// seed stores t as given, keeping its id and history.
func (s *storage) seed(t task.Task) task.Task {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if t.ID.IsZero() {
		t.ID = task.IntID(s.nextID)
	}
	if n, err := strconv.ParseInt(t.ID.String(), 10, 64); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
	if t.History == nil {
		t.History = []task.HistoryEntry{}
	}
	key := t.ID.String()
	if _, exists := s.tasks[key]; !exists {
		s.ids = append(s.ids, key)
	}
	stored := t.Clone()
	s.tasks[key] = &stored
	return t
}

func (s *storage) update(id task.ID, apply func(*task.Task)) (task.Task, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id.String()]
	if !ok {
		return task.Task{}, false
	}
	apply(t)
	t.History = append(t.History, s.stamp("updated"))
	return t.Clone(), true
}

func (s *storage) delete(id task.ID) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := id.String()
	if _, ok := s.tasks[key]; !ok {
		return false
	}
	delete(s.tasks, key)
	for ind, val := range s.ids {
		if val == key {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return true
}
