package api

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUDeduper remembers recently seen idempotency keys so a retried control
// command is applied exactly once. The dashboard is a single process, so a
// bounded in-memory window replaces a shared key store; keys older than the
// window fall out and a very late replay would be reapplied, which the
// best-effort posture accepts.
type LRUDeduper struct {
	cache *lru.Cache[string, struct{}]
}

// NewLRUDeduper creates a deduper remembering up to size keys.
func NewLRUDeduper(size int) (*LRUDeduper, error) {
	c, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, err
	}
	return &LRUDeduper{cache: c}, nil
}

// Add records the key if it has not been seen within the window. It returns
// true when the key was newly added.
func (d *LRUDeduper) Add(key string) bool {
	present, _ := d.cache.ContainsOrAdd(key, struct{}{})
	return !present
}

// Remove deletes a previously recorded key. It is used when a command is
// rejected before being applied, so a corrected retry under the same key is
// not mistaken for a replay.
func (d *LRUDeduper) Remove(key string) {
	d.cache.Remove(key)
}

// Reset forgets all recorded keys.
func (d *LRUDeduper) Reset() {
	d.cache.Purge()
}
