package actions

import "fabula/internal/knowledge"

// Registry resolves wire tags to actions for event-log decoding and
// scenario loading. Tag order is registration order, kept stable for
// deterministic listings.
type Registry struct {
	byTag map[string]knowledge.Action
	tags  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]knowledge.Action)}
}

// Default returns a registry holding the full story action vocabulary.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Move{})
	r.Register(Grab{})
	r.Register(Drop{})
	r.Register(Give{})
	return r
}

// Register adds an action. A duplicate tag replaces the previous
// action but keeps its position.
func (r *Registry) Register(a knowledge.Action) {
	if _, ok := r.byTag[a.Tag()]; !ok {
		r.tags = append(r.tags, a.Tag())
	}
	r.byTag[a.Tag()] = a
}

// Get resolves a tag.
func (r *Registry) Get(tag string) (knowledge.Action, bool) {
	a, ok := r.byTag[tag]
	return a, ok
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}
