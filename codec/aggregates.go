package codec

import (
	"reflect"

	"github.com/benjamin-larsen/barewire/internal/cursor"
	"github.com/benjamin-larsen/barewire/schema"
)

// EnumValue is the decode result of an Enum type: the value plus,
// for convenience, the declared name it matched.
type EnumValue struct {
	Name  string
	Value uint64
}

func encodeEnum(w *cursor.Writer, t *schema.Type, value any) error {
	var v uint64
	switch e := value.(type) {
	case EnumValue:
		v = e.Value
	case string:
		val, ok := t.EnumValues[e]
		if !ok {
			return encErr("enum has no member %q", e)
		}
		v = val
	default:
		n, err := asUint64(value)
		if err != nil {
			return encErr("enum value must be a declared name, EnumValue, or integer")
		}
		v = n
	}
	declared := false
	for _, dv := range t.EnumValues {
		if dv == v {
			declared = true
			break
		}
	}
	if !declared {
		return encErr("value %d is not a declared member of this enum", v)
	}
	return EncodeUInt(w, v)
}

func decodeEnum(r *cursor.Reader, t *schema.Type) (any, error) {
	v, err := DecodeUInt(r)
	if err != nil {
		return nil, err
	}
	for name, dv := range t.EnumValues {
		if dv == v {
			return EnumValue{Name: name, Value: v}, nil
		}
	}
	return nil, decErr("unknown enum value %d", v)
}

func encodeOptional(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	if value == nil || isNilPointer(value) {
		return w.WriteByte(0x00)
	}
	if err := w.WriteByte(0x01); err != nil {
		return err
	}
	return EncodeValue(w, s, t.Elem, unwrapPointer(value))
}

func decodeOptional(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, decErr("truncated optional tag: %v", err)
	}
	switch tag {
	case 0x00:
		return nil, nil
	case 0x01:
		return DecodeValue(r, s, t.Elem)
	default:
		return nil, decErr("invalid optional tag 0x%02x", tag)
	}
}

// isNilPointer reports whether v is a typed nil pointer (e.g. (*int)(nil))
// boxed in an any, which Go's plain `value == nil` check misses.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func unwrapPointer(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		return rv.Elem().Interface()
	}
	return v
}

func asSlice(v any) ([]any, error) {
	if s, ok := v.([]any); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, encErr("expected a list/slice value, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func encodeList(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	items, err := asSlice(value)
	if err != nil {
		return err
	}
	if err := EncodeUInt(w, uint64(len(items))); err != nil {
		return err
	}
	for i, item := range items {
		if err := EncodeValue(w, s, t.Elem, item); err != nil {
			return encErr("list element %d: %v", i, err)
		}
	}
	return nil
}

func decodeList(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	n, err := DecodeUInt(r)
	if err != nil {
		return nil, err
	}
	out := make([]any, n)
	for i := range out {
		v, err := DecodeValue(r, s, t.Elem)
		if err != nil {
			return nil, decErr("list element %d: %v", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func encodeFixedList(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	items, err := asSlice(value)
	if err != nil {
		return err
	}
	if len(items) != t.FixedLen {
		return encErr("fixed-list expects %d elements, got %d", t.FixedLen, len(items))
	}
	for i, item := range items {
		if err := EncodeValue(w, s, t.Elem, item); err != nil {
			return encErr("fixed-list element %d: %v", i, err)
		}
	}
	return nil
}

func decodeFixedList(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	out := make([]any, t.FixedLen)
	for i := range out {
		v, err := DecodeValue(r, s, t.Elem)
		if err != nil {
			return nil, decErr("fixed-list element %d: %v", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func asEntries(v any) ([]MapEntry, error) {
	switch m := v.(type) {
	case []MapEntry:
		return m, nil
	default:
		return nil, encErr("expected []codec.MapEntry for a map value, got %T", v)
	}
}

func encodeMap(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	entries, err := asEntries(value)
	if err != nil {
		return err
	}
	if err := EncodeUInt(w, uint64(len(entries))); err != nil {
		return err
	}
	for i, e := range entries {
		if err := EncodeValue(w, s, t.Key, e.Key); err != nil {
			return encErr("map entry %d key: %v", i, err)
		}
		if err := EncodeValue(w, s, t.Value, e.Value); err != nil {
			return encErr("map entry %d value: %v", i, err)
		}
	}
	return nil
}

func decodeMap(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	n, err := DecodeUInt(r)
	if err != nil {
		return nil, err
	}
	out := make([]MapEntry, n)
	seen := make(map[string]bool, n)
	for i := range out {
		k, err := DecodeValue(r, s, t.Key)
		if err != nil {
			return nil, decErr("map entry %d key: %v", i, err)
		}
		kw := cursor.NewWriter()
		if err := EncodeValue(kw, s, t.Key, k); err != nil {
			return nil, decErr("map entry %d key: %v", i, err)
		}
		canon := string(kw.Bytes())
		if seen[canon] {
			return nil, decErr("duplicate map key at entry %d", i)
		}
		seen[canon] = true

		v, err := DecodeValue(r, s, t.Value)
		if err != nil {
			return nil, decErr("map entry %d value: %v", i, err)
		}
		out[i] = MapEntry{Key: k, Value: v}
	}
	return out, nil
}

func encodeUnion(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	u, ok := value.(Union)
	if !ok {
		return encErr("expected codec.Union, got %T", value)
	}
	variant, ok := t.Variants[u.Tag]
	if !ok {
		return encErr("union has no tag %d", u.Tag)
	}
	if err := EncodeUInt(w, uint64(u.Tag)); err != nil {
		return err
	}
	return EncodeValue(w, s, variant, u.Value)
}

func decodeUnion(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	tagU, err := DecodeUInt(r)
	if err != nil {
		return nil, err
	}
	tag := uint32(tagU)
	variant, ok := t.Variants[tag]
	if !ok {
		return nil, decErr("unknown union tag %d", tag)
	}
	v, err := DecodeValue(r, s, variant)
	if err != nil {
		return nil, err
	}
	return Union{Tag: tag, Value: v}, nil
}

func asFieldMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return nil, encErr("expected map[string]any for a struct value, got %T", v)
}

func encodeStruct(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	fields, err := asFieldMap(value)
	if err != nil {
		return err
	}
	for _, f := range t.Fields {
		fv, present := fields[f.Name]
		if !present {
			if f.Type.Kind == schema.KindOptional {
				fv = nil
			} else {
				return encErr("missing required field %q", f.Name)
			}
		}
		if err := EncodeValue(w, s, f.Type, fv); err != nil {
			return encErr("field %q: %v", f.Name, err)
		}
	}
	return nil
}

func decodeStruct(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	out := make(map[string]any, len(t.Fields))
	for _, f := range t.Fields {
		v, err := DecodeValue(r, s, f.Type)
		if err != nil {
			return nil, decErr("field %q: %v", f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}
