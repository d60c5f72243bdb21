// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"sort"
	"sync"

	"github.com/api2spec/axum2spec/pkg/types"
)

// Registry is the component table of one resolution run, keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*types.Component
	order      []string
}

// NewRegistry creates a new component registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*types.Component),
	}
}

// Add registers a component, replacing any component of the same name.
func (r *Registry) Add(c *types.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.components[c.Name]; !ok {
		r.order = append(r.order, c.Name)
	}
	r.components[c.Name] = c
}

// AddField appends a field descriptor to the named component.
func (r *Registry) AddField(name string, field types.FieldDescriptor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.components[name]
	if !ok {
		return false
	}
	c.Fields = append(c.Fields, field)
	return true
}

// Get returns a component by name.
func (r *Registry) Get(name string) (*types.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[name]
	return c, ok
}

// Has checks if a component exists in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.components[name]
	return ok
}

// Components returns the components in registration order.
func (r *Registry) Components() []*types.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*types.Component, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.components[name])
	}
	return result
}

// Names returns all component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of components in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.components)
}

// Merge adds all components from another registry. A component of the same
// name replaces the existing one and keeps its position.
func (r *Registry) Merge(other *Registry) {
	if other == nil || other == r {
		return
	}

	other.mu.RLock()
	defer other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range other.order {
		if _, ok := r.components[name]; !ok {
			r.order = append(r.order, name)
		}
		r.components[name] = other.components[name]
	}
}
