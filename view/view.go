// Package view provides zero-copy field access over an encoded BARE
// record: given a validated schema and a backing byte slice, it resolves
// dotted field paths to byte offsets without decoding the whole record,
// and permits in-place mutation of fields whose encoding cannot change
// length.
package view

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/benjamin-larsen/barewire/codec"
	"github.com/benjamin-larsen/barewire/internal/cursor"
	"github.com/benjamin-larsen/barewire/schema"
)

// TypeMismatchError is returned when a path assumes the wrong Optional/
// Union variant, or names a field that does not exist on the resolved
// struct.
type TypeMismatchError struct{ Msg string }

func (e *TypeMismatchError) Error() string { return "view: " + e.Msg }

// InvalidValueError is returned by Set when the new encoding would change
// the byte length of a variable-size field.
type InvalidValueError struct{ Msg string }

func (e *InvalidValueError) Error() string { return "view: " + e.Msg }

// indexEntry is a statically-known, fixed-offset field discovered while
// walking the root type at construction time.
type indexEntry struct {
	offset int
	typ    *schema.Type
}

// dynEntry is a memoized dynamic-offset resolution: valid only as long as
// the bytes from the nearest fixed ancestor up to the resolved offset
// still hash the same way.
type dynEntry struct {
	prefixHash uint64
	prefixLen  int
	offset     int
	typ        *schema.Type
}

// View pairs a validated schema with a backing slice and exposes
// field-path get/set/nested operations over it.
type View struct {
	s     *schema.Schema[schema.Validated]
	root  *schema.Type
	buf   []byte
	index map[string]indexEntry

	dynCache map[string]dynEntry
}

// New builds a View over buf rooted at the schema's root type, walking
// the fixed-offset prefix once up front.
func New(s *schema.Schema[schema.Validated], buf []byte) (*View, error) {
	root, err := s.Resolve(s.Root())
	if err != nil {
		return nil, err
	}
	v := &View{s: s, root: root, buf: buf, index: map[string]indexEntry{}, dynCache: map[string]dynEntry{}}
	v.buildIndex(root, nil, 0, true)
	return v, nil
}

func joinPath(path []string) string { return strings.Join(path, ".") }

// buildIndex records {path, type, offset} for every struct field whose
// full prefix (every field preceding it, at every enclosing level) has a
// statically-known fixed size. Once a variable-size field is crossed,
// fixedKnown turns false for everything after it, at this level and
// every level nested beneath it.
func (v *View) buildIndex(t *schema.Type, path []string, offset int, fixedKnown bool) {
	resolved := t
	for resolved.Kind == schema.KindUserDefined {
		next, err := v.s.Resolve(resolved.Name)
		if err != nil {
			return
		}
		resolved = next
	}
	if resolved.Kind != schema.KindStruct {
		return
	}

	cur := offset
	stillFixed := fixedKnown
	for _, f := range resolved.Fields {
		fieldPath := append(append([]string{}, path...), f.Name)
		sz := schema.SizeOf(v.s, f.Type)

		if stillFixed {
			v.index[joinPath(fieldPath)] = indexEntry{offset: cur, typ: f.Type}
			v.buildIndex(f.Type, fieldPath, cur, true)
		} else {
			v.buildIndex(f.Type, fieldPath, 0, false)
		}

		if !sz.Fixed {
			stillFixed = false
		} else if stillFixed {
			cur += int(sz.Min)
		}
	}
}

// resolveType unwraps UserDefined down to the concrete type.
func (v *View) resolveType(t *schema.Type) (*schema.Type, error) {
	for t.Kind == schema.KindUserDefined {
		next, err := v.s.Resolve(t.Name)
		if err != nil {
			return nil, err
		}
		t = next
	}
	return t, nil
}

// walk resolves path against the root, decoding from base as needed, and
// returns the absolute byte offset and declared type of the named field.
func (v *View) walk(path []string) (int, *schema.Type, error) {
	if len(path) == 0 {
		return 0, v.root, nil
	}

	if entry, ok := v.index[joinPath(path)]; ok {
		return entry.offset, entry.typ, nil
	}

	// Dynamic resolution: replay the struct from the root (or the nearest
	// indexed ancestor) decoding each preceding sibling to accumulate the
	// byte offset. The result is cached keyed by path, valid as long as
	// the observed prefix bytes leading up to the field still hash the
	// same: Set only ever rewrites a field in place at its own exact
	// length, so a cache hit implies the offset is still correct.
	baseOffset, baseType, consumedFrom := v.nearestIndexedAncestor(path)
	key := joinPath(path)

	if cached, ok := v.dynCache[key]; ok {
		end := baseOffset + cached.prefixLen
		if end <= len(v.buf) && xxhash.Sum64(v.buf[baseOffset:end]) == cached.prefixHash {
			return cached.offset, cached.typ, nil
		}
	}

	off, typ, err := v.decodeToOffset(baseOffset, baseType, path[consumedFrom:])
	if err != nil {
		return 0, nil, err
	}
	prefixLen := off - baseOffset
	v.dynCache[key] = dynEntry{
		prefixHash: xxhash.Sum64(v.buf[baseOffset : baseOffset+prefixLen]),
		prefixLen:  prefixLen,
		offset:     off,
		typ:        typ,
	}
	return off, typ, nil
}

// nearestIndexedAncestor finds the longest path prefix already present in
// the static index, or falls back to the root.
func (v *View) nearestIndexedAncestor(path []string) (offset int, typ *schema.Type, consumedSegments int) {
	for i := len(path) - 1; i >= 1; i-- {
		prefix := joinPath(path[:i])
		if entry, ok := v.index[prefix]; ok {
			return entry.offset, entry.typ, i
		}
	}
	return 0, v.root, 0
}

// enterContainer unwraps UserDefined references and, since path traversal
// is about to descend past this point, an Optional wrapper too: reaching
// into an absent Optional's payload is a type mismatch, not a nil value.
// Any bytes consumed (the Optional present/absent tag) are reflected in
// the returned offset delta.
func (v *View) enterContainer(offset int, t *schema.Type) (int, *schema.Type, error) {
	for {
		for t.Kind == schema.KindUserDefined {
			next, err := v.s.Resolve(t.Name)
			if err != nil {
				return 0, nil, err
			}
			t = next
		}
		if t.Kind != schema.KindOptional {
			return offset, t, nil
		}
		r := cursor.NewReader(v.buf[offset:])
		tag, err := r.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		if tag != 0x01 {
			return 0, nil, &TypeMismatchError{Msg: "path traverses an absent optional field"}
		}
		offset += r.Position()
		t = t.Elem
	}
}

// decodeToOffset walks remaining path segments from (baseOffset, baseType),
// decoding each preceding sibling field at every level to locate the byte
// offset of the final segment. A segment following a Union-typed field is
// interpreted as the decimal variant tag to select.
func (v *View) decodeToOffset(baseOffset int, baseType *schema.Type, remaining []string) (int, *schema.Type, error) {
	offset := baseOffset
	t := baseType
	for _, seg := range remaining {
		var err error
		offset, t, err = v.enterContainer(offset, t)
		if err != nil {
			return 0, nil, err
		}

		switch t.Kind {
		case schema.KindStruct:
			r := cursor.NewReader(v.buf[offset:])
			var target *schema.Type
			found := false
			for _, f := range t.Fields {
				if f.Name == seg {
					target = f.Type
					found = true
					break
				}
				if _, err := codec.DecodeValue(r, v.s, f.Type); err != nil {
					return 0, nil, err
				}
			}
			if !found {
				return 0, nil, &TypeMismatchError{Msg: "no field named " + seg}
			}
			offset += r.Position()
			t = target

		case schema.KindUnion:
			wantTag, convErr := strconv.ParseUint(seg, 10, 32)
			if convErr != nil {
				return 0, nil, &TypeMismatchError{Msg: "path segment " + seg + " is not a valid union tag"}
			}
			r := cursor.NewReader(v.buf[offset:])
			gotTag, err := codec.DecodeUInt(r)
			if err != nil {
				return 0, nil, err
			}
			if gotTag != wantTag {
				return 0, nil, &TypeMismatchError{Msg: "union holds a different variant than the path assumes"}
			}
			variant, ok := t.Variants[uint32(gotTag)]
			if !ok {
				return 0, nil, &TypeMismatchError{Msg: "unknown union tag"}
			}
			offset += r.Position()
			t = variant

		default:
			return 0, nil, &TypeMismatchError{Msg: "path segment " + seg + " does not name a struct field or union variant"}
		}
	}
	return offset, t, nil
}

// Get resolves path and decodes exactly that field's value.
func (v *View) Get(path ...string) (any, error) {
	offset, typ, err := v.walk(path)
	if err != nil {
		return nil, err
	}
	r := cursor.NewReader(v.buf[offset:])
	return codec.DecodeValue(r, v.s, typ)
}

// Set encodes value for path and writes it in place. It fails with
// InvalidValueError if the new encoding's length differs from the
// existing field's length, since the view can only mutate in place.
func (v *View) Set(value any, path ...string) error {
	offset, typ, err := v.walk(path)
	if err != nil {
		return err
	}

	oldR := cursor.NewReader(v.buf[offset:])
	if _, err := codec.DecodeValue(oldR, v.s, typ); err != nil {
		return err
	}
	oldLen := oldR.Position()

	w := cursor.NewWriter()
	if err := codec.EncodeValue(w, v.s, typ, value); err != nil {
		return err
	}
	newBytes := w.Bytes()
	if len(newBytes) != oldLen {
		return &InvalidValueError{Msg: "would resize variable-length field in place"}
	}
	copy(v.buf[offset:offset+oldLen], newBytes)
	return nil
}

// Nested returns a sub-view over the struct at path, sharing the same
// backing slice narrowed to that struct's byte range.
func (v *View) Nested(path ...string) (*View, error) {
	offset, typ, err := v.walk(path)
	if err != nil {
		return nil, err
	}
	resolved, err := v.resolveType(typ)
	if err != nil {
		return nil, err
	}
	if resolved.Kind != schema.KindStruct {
		return nil, &TypeMismatchError{Msg: "nested path does not resolve to a struct"}
	}

	r := cursor.NewReader(v.buf[offset:])
	if _, err := codec.DecodeValue(r, v.s, typ); err != nil {
		return nil, err
	}
	sub := v.buf[offset : offset+r.Position()]

	nv := &View{s: v.s, root: resolved, buf: sub, index: map[string]indexEntry{}, dynCache: map[string]dynEntry{}}
	nv.buildIndex(resolved, nil, 0, true)
	return nv, nil
}
