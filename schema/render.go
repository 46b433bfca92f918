package schema

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalText renders the schema canonically: for each type in lexicographic
// order of name, the string `name ":" rendered_type ";"` concatenated.
// This is the input to the schema identifier derivation in the protocol
// package, and is also what `barewire render` prints.
func (s *Schema[S]) CanonicalText() string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(RenderType(s.types[name]))
		b.WriteByte(';')
	}
	return b.String()
}

// RenderType renders a single type in prefix notation.
func RenderType(t *Type) string {
	switch t.Kind {
	case KindFixedData:
		return fmt.Sprintf("fixed-data<%d>", t.FixedLen)
	case KindEnum:
		names := make([]string, 0, len(t.EnumValues))
		for name := range t.EnumValues {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%d", name, t.EnumValues[name])
		}
		return "enum{" + strings.Join(parts, ",") + "}"
	case KindOptional:
		return "optional<" + RenderType(t.Elem) + ">"
	case KindList:
		return "list<" + RenderType(t.Elem) + ">"
	case KindFixedList:
		return fmt.Sprintf("fixed-list<%s,%d>", RenderType(t.Elem), t.FixedLen)
	case KindMap:
		return "map<" + RenderType(t.Key) + "," + RenderType(t.Value) + ">"
	case KindUnion:
		tags := make([]uint32, 0, len(t.Variants))
		for tag := range t.Variants {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		parts := make([]string, len(tags))
		for i, tag := range tags {
			parts[i] = fmt.Sprintf("%d=%s", tag, RenderType(t.Variants[tag]))
		}
		return "union{" + strings.Join(parts, ",") + "}"
	case KindStruct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ":" + RenderType(f.Type)
		}
		return "struct{" + strings.Join(parts, ",") + "}"
	case KindUserDefined:
		return t.Name
	default:
		return t.Kind.String()
	}
}
