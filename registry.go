package skema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry is a concurrency-safe set of named, sealed schemas. Hosts build
// schemas in code and publish them here for the CLI and HTTP surfaces.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{schemas: map[string]*Schema{}} }

// Register publishes s under name.
func (r *Registry) Register(name string, s *Schema) error {
	name = strings.TrimSpace(name)
	if name == "" || s == nil {
		return ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, name)
	}
	r.schemas[name] = s
	return nil
}

// MustRegister is Register that panics on error, for package-level setup.
func (r *Registry) MustRegister(name string, s *Schema) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, error) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return s, nil
}

// Names lists registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		out = append(out, name)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
