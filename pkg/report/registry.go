package report

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available reports.
// It provides thread-safe registration and lookup of reports.
type Registry struct {
	reports map[string]Report
	mu      sync.RWMutex
}

// NewRegistry creates a new empty report registry.
func NewRegistry() *Registry {
	return &Registry{
		reports: make(map[string]Report),
	}
}

// Register adds a report to the registry.
// Returns an error if a report with the same ID already exists.
func (r *Registry) Register(rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[rep.ID()]; exists {
		return fmt.Errorf("report %s already registered", rep.ID())
	}

	r.reports[rep.ID()] = rep
	return nil
}

// Unregister removes a report from the registry.
// Returns an error if the report doesn't exist.
func (r *Registry) Unregister(reportID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[reportID]; !exists {
		return fmt.Errorf("report %s not found", reportID)
	}

	delete(r.reports, reportID)
	return nil
}

// Get returns a report by ID.
// Returns nil if the report doesn't exist.
func (r *Registry) Get(reportID string) Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.reports[reportID]
}

// GetAll returns all registered reports, ordered by ID.
func (r *Registry) GetAll() []Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := make([]Report, 0, len(r.reports))
	for _, rep := range r.reports {
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ID() < reports[j].ID()
	})

	return reports
}

// Count returns the number of registered reports.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.reports)
}
