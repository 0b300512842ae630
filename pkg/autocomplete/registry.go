package autocomplete

import "sync"

// Registry records which field each dependent field reads its context from.
type Registry struct {
	mu       sync.RWMutex
	upstream map[*Field]*Field
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{upstream: make(map[*Field]*Field)}
}

// Bind declares that dependent reads from upstream.
func (r *Registry) Bind(dependent, upstream *Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upstream[dependent] = upstream
}

// Upstream returns the field dependent reads from.
func (r *Registry) Upstream(dependent *Field) (*Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	up, ok := r.upstream[dependent]
	return up, ok
}
