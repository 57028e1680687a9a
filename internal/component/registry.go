// registry.go implements the static name-to-implementation table behind
// subcommand dispatch.
package component

import (
	"github.com/sosreport/sos/internal/model"
)

// Descriptor binds a subcommand name to its factory and the one-line
// description shown in the top-level help text.
type Descriptor struct {
	// Name is the unique subcommand name (the first CLI argument).
	Name string

	// Description is the single help line for this component.
	Description string

	// Factory builds instances of the component.
	Factory Factory
}

// Registry is the static mapping from subcommand name to component. It is
// populated once at process start and never mutated afterwards; dispatch
// and help generation both read from it.
type Registry struct {
	order  []Descriptor
	byName map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a component under name. Registering a name twice is a
// programmer error in registry assembly and returns a
// DuplicateComponentError, which callers treat as fatal at startup.
func (r *Registry) Register(name, description string, factory Factory) error {
	if _, exists := r.byName[name]; exists {
		return &model.DuplicateComponentError{Name: name}
	}
	r.byName[name] = len(r.order)
	r.order = append(r.order, Descriptor{Name: name, Description: description, Factory: factory})
	return nil
}

// Resolve returns the descriptor registered under name, or an
// UnknownComponentError the dispatcher turns into a one-line message and a
// non-zero exit.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, &model.UnknownComponentError{Name: name}
	}
	return r.order[i], nil
}

// Descriptors returns every registered component in registration order,
// for building the top-level usage text.
func (r *Registry) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.order...)
}
