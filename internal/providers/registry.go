package providers

import (
	"hermes/internal/domain/network"
	"hermes/pkg/errors"
)

// Registry tracks registered providers in registration order. Registration
// happens once during tool construction, before request serving begins, so
// reads need no locking.
//
// Registration order is significant: it is the default tie-break when
// multiple providers are otherwise equally eligible.
type Registry[P Provider] struct {
	order []P
	index map[string]int
}

// NewRegistry constructs an empty provider registry.
func NewRegistry[P Provider]() *Registry[P] {
	return &Registry[P]{
		index: make(map[string]int),
	}
}

// Register stores a provider keyed by its name. Re-registration under the
// same name replaces the record in place, keeping its original position.
func (r *Registry[P]) Register(p P) {
	if i, ok := r.index[p.Name()]; ok {
		r.order[i] = p
		return
	}
	r.index[p.Name()] = len(r.order)
	r.order = append(r.order, p)
}

// Providers returns all registered providers in registration order.
func (r *Registry[P]) Providers() []P {
	out := make([]P, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns provider names in registration order.
func (r *Registry[P]) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, p := range r.order {
		names = append(names, p.Name())
	}
	return names
}

// Get returns the provider registered under name.
func (r *Registry[P]) Get(name string) (P, error) {
	i, ok := r.index[name]
	if !ok {
		var zero P
		return zero, errors.Wrapf(errors.ErrNotFound, "no provider registered under %q", name)
	}
	return r.order[i], nil
}

// SupportedNetworks returns the union of all declared networks, ordered by
// first declaration.
func (r *Registry[P]) SupportedNetworks() []network.ID {
	seen := network.NewSet()
	var union []network.ID
	for _, p := range r.order {
		for _, id := range p.SupportedNetworks() {
			if !seen.Contains(id) {
				seen.Add(id)
				union = append(union, id)
			}
		}
	}
	return union
}

// ForNetwork returns providers declaring support for the given network,
// in registration order.
func (r *Registry[P]) ForNetwork(id network.ID) []P {
	var out []P
	for _, p := range r.order {
		for _, declared := range p.SupportedNetworks() {
			if declared == id {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
