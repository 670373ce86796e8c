package registry

import "sync"

// Registry is a process-wide key/value map whose keys can be locked once
// registration is over (after init, before Apply).
type Registry struct {
	mu     sync.RWMutex
	values map[string]interface{}
	locked map[string]bool
}

// GlobalRegistry holds the cmd, cron and api extension lists.
var GlobalRegistry = New()

func New() *Registry {
	return &Registry{values: make(map[string]interface{}), locked: make(map[string]bool)}
}

func (r *Registry) SetGlobal(key string, v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = v
}

func (r *Registry) GetGlobal(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// Lock marks key immutable. Registering under a locked key panics in the callers.
func (r *Registry) Lock(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked[key] = true
}

func (r *Registry) IsLocked(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked[key]
}

// UnlockForTesting reopens key so tests can register and unregister freely.
func (r *Registry) UnlockForTesting(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locked, key)
}
