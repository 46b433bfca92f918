package schema

// Size describes the byte-length bounds of an encoded value of a type, as
// computed once during validation and used by the view package to locate
// fixed-prefix struct fields without decoding the whole record.
type Size struct {
	Min    uint64
	Max    uint64 // meaningful only when HasMax
	HasMax bool
	Fixed  bool // Min == Max and every encoding of this type has that exact length
}

// varintBounds is the byte range of a BARE UInt/Int/Enum encoding: at
// least one byte (value 0), at most ten (the 2^64-1 boundary case).
var varintBounds = Size{Min: 1, Max: 10, HasMax: true, Fixed: false}

func fixedSize(n uint64) Size {
	return Size{Min: n, Max: n, HasMax: true, Fixed: true}
}

type sizer struct {
	schema     *Schema[Draft]
	cache      map[string]Size
	inProgress map[string]bool
}

func (sc *sizer) sizeOfName(name string) Size {
	if sz, ok := sc.cache[name]; ok {
		return sz
	}
	if sc.inProgress[name] {
		// A recursive reference can only be reached through a boxing
		// aggregate (validation already rejected unboxed cycles), and
		// every boxing aggregate's own Min/HasMax is independent of its
		// element's — so an unresolved placeholder is safe here.
		return Size{Min: 0, HasMax: false, Fixed: false}
	}
	sc.inProgress[name] = true
	t := sc.schema.types[name]
	sz := sc.sizeOfType(t)
	delete(sc.inProgress, name)
	sc.cache[name] = sz
	return sz
}

func (sc *sizer) sizeOfType(t *Type) Size {
	switch t.Kind {
	case KindVoid:
		return fixedSize(0)
	case KindBool, KindU8, KindI8:
		return fixedSize(1)
	case KindU16, KindI16:
		return fixedSize(2)
	case KindU32, KindI32, KindF32:
		return fixedSize(4)
	case KindU64, KindI64, KindF64:
		return fixedSize(8)
	case KindUInt, KindInt, KindEnum:
		return varintBounds
	case KindString, KindData:
		return Size{Min: 1, HasMax: false, Fixed: false}
	case KindFixedData:
		return fixedSize(uint64(t.FixedLen))
	case KindOptional:
		inner := sc.sizeOfType(t.Elem)
		sz := Size{Min: 1, Fixed: false}
		if inner.HasMax {
			sz.Max = 1 + inner.Max
			sz.HasMax = true
		}
		return sz
	case KindList, KindMap:
		return Size{Min: 1, HasMax: false, Fixed: false}
	case KindFixedList:
		if t.FixedLen == 0 {
			return fixedSize(0)
		}
		inner := sc.sizeOfType(t.Elem)
		n := uint64(t.FixedLen)
		sz := Size{Min: n * inner.Min, Fixed: inner.Fixed}
		if inner.HasMax {
			sz.Max = n * inner.Max
			sz.HasMax = true
		}
		return sz
	case KindUnion:
		hasMax := true
		cheapest := ^uint64(0)
		var priciest uint64
		for _, vt := range t.Variants {
			inner := sc.sizeOfType(vt)
			if inner.Min < cheapest {
				cheapest = inner.Min
			}
			if !inner.HasMax {
				hasMax = false
			} else if inner.Max > priciest {
				priciest = inner.Max
			}
		}
		min := varintBounds.Min + cheapest
		max := varintBounds.Max + priciest
		return Size{Min: min, Max: max, HasMax: hasMax, Fixed: false}
	case KindStruct:
		sz := Size{Min: 0, Max: 0, HasMax: true, Fixed: true}
		for _, f := range t.Fields {
			fs := sc.sizeOfType(f.Type)
			sz.Min += fs.Min
			if !fs.Fixed {
				sz.Fixed = false
			}
			if sz.HasMax {
				if fs.HasMax {
					sz.Max += fs.Max
				} else {
					sz.HasMax = false
				}
			}
		}
		return sz
	case KindUserDefined:
		return sc.sizeOfName(t.Name)
	}
	return Size{}
}

// SizeOf computes the Size of an arbitrary type against a validated
// schema, resolving UserDefined references through the schema's
// already-computed named sizes. The view package uses this to size
// anonymous nested fields (a struct field whose type is itself a Struct,
// List, etc.) that never got a name of their own.
func SizeOf(s *Schema[Validated], t *Type) Size {
	sc := &sizer{cache: map[string]Size{}}
	for name, sz := range s.sizes {
		sc.cache[name] = sz
	}
	return sc.sizeOfType(t)
}
