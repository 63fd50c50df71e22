package tools

import "slices"

// Registry holds the static tool table. It is built once at startup and
// never mutated afterwards, so concurrent lookups need no locking.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry builds the registry from the static tool definitions.
func NewRegistry() *Registry {
	tools := slices.Concat(
		issueTools(),
		pullTools(),
		repoTools(),
		scanningTools(),
		searchTools(),
		userTools(),
	)
	index := make(map[string]int, len(tools))
	for i, t := range tools {
		index[t.Name] = i
	}
	return &Registry{tools: tools, index: index}
}

// All returns every registered tool in definition order.
func (r *Registry) All() []Tool {
	return r.tools
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}
