package export

import (
	"fmt"
	"sync"
)

// Registry manages available sinks.
// It provides thread-safe registration and lookup of sinks.
type Registry struct {
	sinks map[string]Sink
	mu    sync.RWMutex
}

// NewRegistry creates a new empty sink registry.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]Sink),
	}
}

// Register adds a sink to the registry.
// Returns an error if a sink with the same ID already exists.
func (r *Registry) Register(sink Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sinks[sink.ID()]; exists {
		return fmt.Errorf("sink %s already registered", sink.ID())
	}

	r.sinks[sink.ID()] = sink
	return nil
}

// Get returns a sink by ID.
// Returns nil if the sink doesn't exist.
func (r *Registry) Get(sinkID string) Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sinks[sinkID]
}

// Count returns the number of registered sinks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sinks)
}
