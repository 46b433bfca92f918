package schema

import "fmt"

// State is the phantom validation-state parameter of Schema: Draft or
// Validated. Only Schema[Validated] is accepted by the codec and view
// packages — validation is modeled as a compile-time guarantee rather
// than a field re-checked at every call site.
type State interface {
	sealed()
}

// Draft marks a schema that has not yet been validated.
type Draft struct{}

// Validated marks a schema for which every invariant in Validate has
// passed. A *Schema[Validated] is immutable.
type Validated struct{}

func (Draft) sealed()     {}
func (Validated) sealed() {}

// Schema is a named collection of types with a distinguished root. The
// type parameter S tracks whether the schema has passed Validate.
type Schema[S State] struct {
	types map[string]*Type
	root  string

	// populated by Validate; nil on a Draft schema.
	sizes     map[string]Size
	reachable map[string]bool
}

// New constructs a draft schema from a type map and root name. The map is
// copied so later mutation of the caller's map cannot invalidate a
// schema that has already been validated.
func New(root string, types map[string]*Type) *Schema[Draft] {
	cp := make(map[string]*Type, len(types))
	for k, v := range types {
		cp[k] = v
	}
	return &Schema[Draft]{types: cp, root: root}
}

// Root returns the schema's root type name.
func (s *Schema[S]) Root() string { return s.root }

// Lookup resolves a named type. It is exported for tooling (CLI render,
// compatibility diffing); codec and view resolve references through
// Resolve instead.
func (s *Schema[S]) Lookup(name string) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Types returns the schema's full name->type map. The returned map must
// not be mutated.
func (s *Schema[S]) Types() map[string]*Type { return s.types }

// RootType resolves the root type itself.
func (s *Schema[S]) RootType() (*Type, bool) { return s.Lookup(s.root) }

// Resolve looks up a named type on a Validated schema; validation already
// proved every reachable reference resolves, so failure here indicates a
// name outside the validated reachable set (a caller error, not a wire
// error).
func (s *Schema[Validated]) Resolve(name string) (*Type, error) {
	t, ok := s.types[name]
	if !ok {
		return nil, &ValidationError{Msg: fmt.Sprintf("type %q not found in schema", name)}
	}
	return t, nil
}

// Size returns the precomputed size bounds for a named type in a Validated
// schema.
func (s *Schema[Validated]) Size(name string) (Size, bool) {
	sz, ok := s.sizes[name]
	return sz, ok
}

// RootSize returns the precomputed size bounds of the schema's root type.
func (s *Schema[Validated]) RootSize() Size {
	return s.sizes[s.root]
}
