package storage

import (
	"sync"
	"time"

	"swarmboard/domain"
)

// serverTimeLayout is the fixed ISO-8601 millisecond format stamped onto
// every state snapshot.
const serverTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store owns the board state: tasks, the activity log and the dashboard
// configuration. All mutations and reads go through a single mutex so a
// partial merge is never observed in a torn state. Reads hand out deep
// copies; callers can mutate what they get back without corrupting the
// store, and the store's next write is invisible to snapshots already
// handed out.
type Store struct {
	mu     sync.Mutex
	tasks  []domain.Task
	byID   map[int]int // task id -> position in tasks
	logs   []domain.LogEntry
	config domain.BoardConfig

	now    func() time.Time
	notify func()
}

// New creates an empty store with the default configuration.
func New() *Store {
	return &Store{
		byID:   make(map[int]int),
		config: domain.DefaultBoardConfig(),
		now:    time.Now,
	}
}

// SetNotifier registers a callback invoked after every completed mutation.
// It is called outside the store lock.
func (s *Store) SetNotifier(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

func (s *Store) notifyChanged(fn func()) {
	if fn != nil {
		fn()
	}
}

// Init replaces the configuration wholesale and clears both tasks and logs.
// The three resets are one logical "start a new dashboard" operation and
// never happen independently.
func (s *Store) Init(cfg domain.BoardConfig) {
	s.mu.Lock()
	s.config = cfg
	s.tasks = nil
	s.byID = make(map[int]int)
	s.logs = nil
	fn := s.notify
	s.mu.Unlock()
	s.notifyChanged(fn)
}

// Reset restores the default configuration and clears both stores. It is
// the same operation the server runs at shutdown.
func (s *Store) Reset() {
	s.Init(domain.DefaultBoardConfig())
}

// CreateTask inserts an independent copy of the task, applying defaults for
// omitted fields. When a task with the same id already exists the new value
// overwrites it in place, keeping its board position.
func (s *Store) CreateTask(t domain.Task) {
	t = t.Clone()
	if t.Status == "" {
		t.Status = domain.StatusReady
	}
	t.Progress = normalizeProgress(t.Progress)
	if t.Message != "" {
		t.Messages = append(t.Messages, domain.Message{Time: s.timestamp(), Text: t.Message})
	}
	deriveProgress(&t)

	s.mu.Lock()
	if pos, ok := s.byID[t.ID]; ok {
		s.tasks[pos] = t
	} else {
		s.byID[t.ID] = len(s.tasks)
		s.tasks = append(s.tasks, t)
	}
	fn := s.notify
	s.mu.Unlock()
	s.notifyChanged(fn)
}

// UpdateTask applies a partial merge onto the task with the given id. An
// unknown id is a silent no-op: the control surface treats it as a benign
// race, not an error. When the update sets the status to done, blocked
// tasks whose blockers are now all done are promoted to ready before the
// call returns.
func (s *Store) UpdateTask(id int, upd domain.TaskUpdate) {
	s.mu.Lock()
	pos, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	applyUpdate(&s.tasks[pos], upd, s.timestamp())
	if upd.SetsStatus(domain.StatusDone) {
		resolveBlocked(s.tasks, s.byID)
	}
	fn := s.notify
	s.mu.Unlock()
	s.notifyChanged(fn)
}

// AppendLog stores an independent copy of the entry at the end of the
// activity log. The log is unbounded for the lifetime of a dashboard run.
func (s *Store) AppendLog(e domain.LogEntry) {
	s.mu.Lock()
	s.logs = append(s.logs, e)
	fn := s.notify
	s.mu.Unlock()
	s.notifyChanged(fn)
}

// Tasks returns a deep copy of every task in creation-insertion order.
// Consumers render columns by filtering this order, so it is significant.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyTasksLocked()
}

func (s *Store) copyTasksLocked() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	for i := range s.tasks {
		out[i] = s.tasks[i].Clone()
	}
	return out
}

// Logs returns a deep copy of every log entry in insertion order.
func (s *Store) Logs() []domain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLogsLocked()
}

func (s *Store) copyLogsLocked() []domain.LogEntry {
	out := make([]domain.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// Config returns a copy of the current configuration.
func (s *Store) Config() domain.BoardConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Snapshot assembles the full board view, stamped with a fresh server time.
// It is computed on every call; nothing is cached.
func (s *Store) Snapshot() domain.StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.StateSnapshot{
		Tasks:      s.copyTasksLocked(),
		Config:     s.config,
		ServerTime: s.now().Format(serverTimeLayout),
	}
}

// LogSnapshot assembles the activity feed view.
func (s *Store) LogSnapshot() domain.LogSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.LogSnapshot{Entries: s.copyLogsLocked()}
}

func (s *Store) timestamp() string {
	return s.now().Format(serverTimeLayout)
}
