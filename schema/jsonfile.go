package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonType is the on-disk shape of one Type entry: a discriminated union
// keyed by "kind", carrying only the fields that Kind uses. It exists
// solely for the CLI's load/save round trip — the fluent Type
// constructors remain the only way to build a schema from Go code.
type jsonType struct {
	Kind string `json:"kind"`

	FixedLen   int               `json:"fixed_len,omitempty"`
	EnumValues map[string]uint64 `json:"enum_values,omitempty"`
	Elem       *jsonType         `json:"elem,omitempty"`
	Key        *jsonType         `json:"key,omitempty"`
	Value      *jsonType         `json:"value,omitempty"`
	Variants   map[string]jsonType `json:"variants,omitempty"`
	Fields     []jsonField       `json:"fields,omitempty"`
	Name       string            `json:"name,omitempty"`
}

type jsonField struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
}

// jsonFile is the on-disk shape of a whole schema file: a root type name
// plus every named type it (transitively) references.
type jsonFile struct {
	Root  string              `json:"root"`
	Types map[string]jsonType `json:"types"`
}

// LoadFile reads a schema from a JSON file in the format WriteFile
// produces, returning it unvalidated — callers call Validate themselves.
func LoadFile(path string) (*Schema[Draft], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a schema from JSON bytes in the LoadFile/WriteFile format.
func Parse(data []byte) (*Schema[Draft], error) {
	var jf jsonFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("schema: invalid schema JSON: %w", err)
	}
	types := make(map[string]*Type, len(jf.Types))
	for name, jt := range jf.Types {
		t, err := jt.toType()
		if err != nil {
			return nil, fmt.Errorf("schema: type %q: %w", name, err)
		}
		types[name] = t
	}
	return New(jf.Root, types), nil
}

// WriteFile serializes s to path in the format LoadFile reads.
func WriteFile[S State](s *Schema[S], path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal serializes s to the LoadFile/WriteFile JSON format.
func Marshal[S State](s *Schema[S]) ([]byte, error) {
	jf := jsonFile{Root: s.Root(), Types: make(map[string]jsonType, len(s.Types()))}
	for name, t := range s.Types() {
		jf.Types[name] = fromType(t)
	}
	return json.MarshalIndent(jf, "", "  ")
}

func fromType(t *Type) jsonType {
	jt := jsonType{Kind: t.Kind.String(), FixedLen: t.FixedLen, Name: t.Name}
	if t.EnumValues != nil {
		jt.EnumValues = t.EnumValues
	}
	if t.Elem != nil {
		e := fromType(t.Elem)
		jt.Elem = &e
	}
	if t.Key != nil {
		k := fromType(t.Key)
		jt.Key = &k
	}
	if t.Value != nil {
		v := fromType(t.Value)
		jt.Value = &v
	}
	if t.Variants != nil {
		jt.Variants = make(map[string]jsonType, len(t.Variants))
		for tag, variant := range t.Variants {
			jt.Variants[fmt.Sprint(tag)] = fromType(variant)
		}
	}
	if t.Fields != nil {
		jt.Fields = make([]jsonField, len(t.Fields))
		for i, f := range t.Fields {
			jt.Fields[i] = jsonField{Name: f.Name, Type: fromType(f.Type)}
		}
	}
	return jt
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (jt jsonType) toType() (*Type, error) {
	kind, ok := kindsByName[jt.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", jt.Kind)
	}
	t := &Type{Kind: kind, FixedLen: jt.FixedLen, Name: jt.Name, EnumValues: jt.EnumValues}

	if jt.Elem != nil {
		elem, err := jt.Elem.toType()
		if err != nil {
			return nil, err
		}
		t.Elem = elem
	}
	if jt.Key != nil {
		key, err := jt.Key.toType()
		if err != nil {
			return nil, err
		}
		t.Key = key
	}
	if jt.Value != nil {
		value, err := jt.Value.toType()
		if err != nil {
			return nil, err
		}
		t.Value = value
	}
	if jt.Variants != nil {
		t.Variants = make(map[uint32]*Type, len(jt.Variants))
		for tagStr, variant := range jt.Variants {
			var tag uint32
			if _, err := fmt.Sscan(tagStr, &tag); err != nil {
				return nil, fmt.Errorf("invalid union tag %q: %w", tagStr, err)
			}
			v, err := variant.toType()
			if err != nil {
				return nil, err
			}
			t.Variants[tag] = v
		}
	}
	if jt.Fields != nil {
		t.Fields = make([]StructField, len(jt.Fields))
		for i, jf := range jt.Fields {
			ft, err := jf.Type.toType()
			if err != nil {
				return nil, err
			}
			t.Fields[i] = StructField{Name: jf.Name, Type: ft}
		}
	}
	return t, nil
}
