package confirm

import "sync"

// Registry holds the single active confirmation. Every Controller sharing a
// Registry shares the at-most-one-open guarantee.
type Registry struct {
	mu     sync.Mutex
	active *Handle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide Registry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Active returns the open confirmation, or nil.
func (r *Registry) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// claim installs h unless a confirmation is already active, in which case the
// active one is returned. The check and the set happen under one lock.
func (r *Registry) claim(h *Handle) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return r.active, false
	}
	r.active = h
	return h, true
}

func (r *Registry) release(h *Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != h {
		return false
	}
	r.active = nil
	return true
}
