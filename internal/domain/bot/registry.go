package bot

import "sync"

// Registry remembers which Discord user owns the configured bot.
// It lives for the process; nothing is persisted.
type Registry struct {
	mu      sync.RWMutex
	ownerID string
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Owner() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ownerID, r.ownerID != ""
}

func (r *Registry) SetOwner(id string) {
	r.mu.Lock()
	r.ownerID = id
	r.mu.Unlock()
}
