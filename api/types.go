package api

import "swarmboard/domain"

// Store abstracts the state engine for handlers.
type Store interface {
	Init(cfg domain.BoardConfig)
	Reset()
	CreateTask(t domain.Task)
	UpdateTask(id int, upd domain.TaskUpdate)
	AppendLog(e domain.LogEntry)
	Snapshot() domain.StateSnapshot
	LogSnapshot() domain.LogSnapshot
	SetNotifier(fn func())
}

// Deduper prevents reapplication of retried control commands.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(key string) bool
	// Remove deletes a previously added key, used when the command is
	// rejected so the caller may retry it under the same key.
	Remove(key string)
	// Reset forgets all recorded keys.
	Reset()
}
