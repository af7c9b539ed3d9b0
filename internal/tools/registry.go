package tools

// Registry stores tools by name, preserving registration order so the agent
// presents a deterministic tool list to the model.
type Registry struct {
	order []Tool
	index map[string]int
}

// NewRegistry constructs an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds or replaces a tool under its own name.
func (r *Registry) Register(t Tool) {
	if i, ok := r.index[t.Name()]; ok {
		r.order[i] = t
		return
	}
	r.index[t.Name()] = len(r.order)
	r.order = append(r.order, t)
}

// Get retrieves a tool by name if registered.
func (r *Registry) Get(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.order[i], true
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, t := range r.order {
		names = append(names, t.Name())
	}
	return names
}
