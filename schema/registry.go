package schema

import (
	"sort"
	"sync"
)

// Registry is the read-only component catalog keyed by (category, name).
type Registry struct {
	byCategory map[Category]map[string]ComponentSchema
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared catalog of built-in components.
// The catalog is built on first use and never mutated afterwards.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = build()
	})
	return defaultRegistry
}

func build() *Registry {
	r := &Registry{byCategory: make(map[Category]map[string]ComponentSchema)}
	for _, group := range [][]ComponentSchema{
		inputComponents(),
		processorComponents(),
		outputComponents(),
		cacheComponents(),
		bufferComponents(),
	} {
		for _, cs := range group {
			cat, ok := r.byCategory[cs.Category]
			if !ok {
				cat = make(map[string]ComponentSchema)
				r.byCategory[cs.Category] = cat
			}
			cat[cs.Name] = cs
		}
	}
	return r
}

// Lookup returns the schema for name within the given category.
func (r *Registry) Lookup(category Category, name string) (ComponentSchema, bool) {
	cs, ok := r.byCategory[category][name]
	return cs, ok
}

// LookupAny returns the first schema matching name across the fixed
// category precedence (input, processor, output, cache, buffer).
func (r *Registry) LookupAny(name string) (ComponentSchema, bool) {
	for _, category := range categoryPrecedence {
		if cs, ok := r.byCategory[category][name]; ok {
			return cs, true
		}
	}
	return ComponentSchema{}, false
}

// Names returns the sorted component names of a category.
func (r *Registry) Names(category Category) []string {
	cat := r.byCategory[category]
	names := make([]string, 0, len(cat))
	for name := range cat {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllNames returns the sorted union of component names across categories.
func (r *Registry) AllNames() []string {
	seen := make(map[string]struct{})
	for _, cat := range r.byCategory {
		for name := range cat {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// wrapperComponents contain other components rather than declaring fields.
// They are accepted without field validation.
var wrapperComponents = map[string]struct{}{
	"broker":     {},
	"switch":     {},
	"fallback":   {},
	"dyn_fanout": {},
}

// IsWrapper reports whether name is a wrapper component that nests other
// components instead of declaring its own field schema.
func IsWrapper(name string) bool {
	_, ok := wrapperComponents[name]
	return ok
}
