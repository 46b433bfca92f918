package schema

// Validate checks every structural invariant and returns an immutable
// Schema[Validated], or the first violated invariant as a
// *ValidationError.
//
// Structural validation with cycle detection works by building a
// direct-edges-only reference graph among named types (an edge
// u->v exists only if v is reachable from u's definition without crossing
// an Optional/List/Map) and runs ordinary cycle detection on it: any cycle
// in that graph is necessarily unproductive, since every edge excluded
// from it passes through an aggregate that can terminate with zero
// elements.
func (s *Schema[Draft]) Validate() (*Schema[Validated], error) {
	if _, ok := s.types[s.root]; !ok {
		return nil, errf("root %q not found in schema types", s.root)
	}

	v := &validator{schema: s, reachable: map[string]bool{}}
	if err := v.reach(s.root); err != nil {
		return nil, err
	}
	if err := v.checkCycles(); err != nil {
		return nil, err
	}

	sc := &sizer{schema: s, cache: map[string]Size{}, inProgress: map[string]bool{}}
	sizes := make(map[string]Size, len(v.reachable))
	for name := range v.reachable {
		sizes[name] = sc.sizeOfName(name)
	}

	return &Schema[Validated]{
		types:     s.types,
		root:      s.root,
		sizes:     sizes,
		reachable: v.reachable,
	}, nil
}

type validator struct {
	schema    *Schema[Draft]
	reachable map[string]bool
}

// reach validates the structural invariants of the named type (once) and
// records it as reachable, recursing into every type it references
// (including through boxing aggregates — invariant 2 requires every
// reachable reference to resolve, regardless of whether the path to it
// was boxed).
func (v *validator) reach(name string) error {
	if v.reachable[name] {
		return nil
	}
	v.reachable[name] = true

	t, ok := v.schema.types[name]
	if !ok {
		return errf("user-defined type %q is referenced but not declared in schema", name)
	}
	return v.walk(t)
}

func (v *validator) walk(t *Type) error {
	switch t.Kind {
	case KindFixedData:
		if t.FixedLen < 0 {
			return errf("fixed-data length must be >= 0, got %d", t.FixedLen)
		}
	case KindFixedList:
		if t.FixedLen < 0 {
			return errf("fixed-list length must be >= 0, got %d", t.FixedLen)
		}
		return v.walk(t.Elem)
	case KindEnum:
		seen := make(map[uint64]string, len(t.EnumValues))
		for name, val := range t.EnumValues {
			if other, dup := seen[val]; dup {
				return errf("enum has duplicate value %d shared by %q and %q", val, other, name)
			}
			seen[val] = name
		}
	case KindOptional, KindList:
		return v.walk(t.Elem)
	case KindMap:
		if t.Key == nil || !isHashablePrimitive(t.Key) {
			return errf("map key type must be a non-void, non-data, non-string, non-float primitive or enum")
		}
		if err := v.walk(t.Key); err != nil {
			return err
		}
		return v.walk(t.Value)
	case KindUnion:
		if len(t.Variants) == 0 {
			return errf("union must declare at least one tag")
		}
		for _, vt := range t.Variants {
			if err := v.walk(vt); err != nil {
				return err
			}
		}
	case KindStruct:
		if len(t.Fields) == 0 {
			return errf("struct must have at least one field")
		}
		seen := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if seen[f.Name] {
				return errf("struct has duplicate field name %q", f.Name)
			}
			seen[f.Name] = true
			if err := v.walk(f.Type); err != nil {
				return err
			}
		}
	case KindUserDefined:
		return v.reach(t.Name)
	}
	return nil
}

// directEdges returns the names of user-defined types reachable from t
// without crossing an Optional, List, or Map — the boxing aggregates that
// can always terminate a recursive expansion with zero elements.
func directEdges(t *Type) []string {
	var out []string
	var rec func(t *Type)
	rec = func(t *Type) {
		switch t.Kind {
		case KindOptional, KindList, KindMap:
			return
		case KindFixedList:
			rec(t.Elem)
		case KindUnion:
			for _, vt := range t.Variants {
				rec(vt)
			}
		case KindStruct:
			for _, f := range t.Fields {
				rec(f.Type)
			}
		case KindUserDefined:
			out = append(out, t.Name)
		}
	}
	rec(t)
	return out
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

func (v *validator) checkCycles() error {
	color := make(map[string]int, len(v.reachable))

	var dfs func(name string) error
	dfs = func(name string) error {
		color[name] = colorGray
		for _, next := range directEdges(v.schema.types[name]) {
			switch color[next] {
			case colorGray:
				return errf("unproductive recursive cycle through %q (no optional/list/map breaks the reference chain)", next)
			case colorWhite:
				if err := dfs(next); err != nil {
					return err
				}
			}
		}
		color[name] = colorBlack
		return nil
	}

	for name := range v.reachable {
		if color[name] == colorWhite {
			if err := dfs(name); err != nil {
				return err
			}
		}
	}
	return nil
}
