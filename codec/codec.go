package codec

import (
	"github.com/benjamin-larsen/barewire/internal/cursor"
	"github.com/benjamin-larsen/barewire/schema"
)

// MapEntry is one key/value pair of an encoded Map value. A Map value is
// represented as an ordered []MapEntry rather than a Go map so that
// "encode order = iteration order" is explicit and caller
// controlled.
type MapEntry struct {
	Key   any
	Value any
}

// Union is the value of a Union(tag->T) type: the selected tag and its
// payload.
type Union struct {
	Tag   uint32
	Value any
}

// Struct values are represented as map[string]any keyed by field name.
// Optional(T) values are represented as a plain Go nil (absent) or the
// wrapped value (present) — the tag byte is entirely handled by
// EncodeValue/DecodeValue for that field, so callers never see a
// presence flag directly.

// Encode encodes value against the schema's root type.
func Encode(s *schema.Schema[schema.Validated], value any) ([]byte, error) {
	root, err := s.Resolve(s.Root())
	if err != nil {
		return nil, err
	}
	sz := s.RootSize()
	w := cursor.NewWriterCapacity(int(sz.Min))
	if err := EncodeValue(w, s, root, value); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode decodes value of the schema's root type from data. Trailing bytes
// beyond the root type's encoding are ignored by design — callers that
// need exact-length framing (e.g. the frame package) size the buffer
// themselves.
func Decode(s *schema.Schema[schema.Validated], data []byte) (any, error) {
	root, err := s.Resolve(s.Root())
	if err != nil {
		return nil, err
	}
	r := cursor.NewReader(data)
	return DecodeValue(r, s, root)
}

// EncodeValue encodes value against an arbitrary type within s, recursing
// into aggregates and resolving UserDefined references against s.
func EncodeValue(w *cursor.Writer, s *schema.Schema[schema.Validated], t *schema.Type, value any) error {
	switch t.Kind {
	case schema.KindUInt:
		v, err := asUint64(value)
		if err != nil {
			return err
		}
		return EncodeUInt(w, v)
	case schema.KindInt:
		v, err := asInt64(value)
		if err != nil {
			return err
		}
		return EncodeInt(w, v)
	case schema.KindU8:
		v, err := asUint64(value)
		if err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case schema.KindU16:
		v, err := asUint64(value)
		if err != nil {
			return err
		}
		return w.WriteU16LE(uint16(v))
	case schema.KindU32:
		v, err := asUint64(value)
		if err != nil {
			return err
		}
		return w.WriteU32LE(uint32(v))
	case schema.KindU64:
		v, err := asUint64(value)
		if err != nil {
			return err
		}
		return w.WriteU64LE(v)
	case schema.KindI8:
		v, err := asInt64(value)
		if err != nil {
			return err
		}
		return w.WriteByte(byte(int8(v)))
	case schema.KindI16:
		v, err := asInt64(value)
		if err != nil {
			return err
		}
		return w.WriteI16LE(int16(v))
	case schema.KindI32:
		v, err := asInt64(value)
		if err != nil {
			return err
		}
		return w.WriteI32LE(int32(v))
	case schema.KindI64:
		v, err := asInt64(value)
		if err != nil {
			return err
		}
		return w.WriteI64LE(v)
	case schema.KindF32:
		v, ok := value.(float32)
		if !ok {
			return encErr("expected float32, got %T", value)
		}
		return w.WriteF32LE(v)
	case schema.KindF64:
		v, err := asFloat64(value)
		if err != nil {
			return err
		}
		return w.WriteF64LE(v)
	case schema.KindBool:
		v, ok := value.(bool)
		if !ok {
			return encErr("expected bool, got %T", value)
		}
		return encodeBool(w, v)
	case schema.KindString:
		v, ok := value.(string)
		if !ok {
			return encErr("expected string, got %T", value)
		}
		return encodeString(w, v)
	case schema.KindData:
		v, err := asBytes(value)
		if err != nil {
			return err
		}
		return encodeData(w, v)
	case schema.KindFixedData:
		v, err := asBytes(value)
		if err != nil {
			return err
		}
		return encodeFixedData(w, v, t.FixedLen)
	case schema.KindVoid:
		return nil
	case schema.KindEnum:
		return encodeEnum(w, t, value)
	case schema.KindOptional:
		return encodeOptional(w, s, t, value)
	case schema.KindList:
		return encodeList(w, s, t, value)
	case schema.KindFixedList:
		return encodeFixedList(w, s, t, value)
	case schema.KindMap:
		return encodeMap(w, s, t, value)
	case schema.KindUnion:
		return encodeUnion(w, s, t, value)
	case schema.KindStruct:
		return encodeStruct(w, s, t, value)
	case schema.KindUserDefined:
		ref, err := s.Resolve(t.Name)
		if err != nil {
			return encErr("resolving %q: %v", t.Name, err)
		}
		return EncodeValue(w, s, ref, value)
	default:
		return encErr("unknown type kind %v", t.Kind)
	}
}

// DecodeValue decodes a value of type t from r, resolving UserDefined
// references against s.
func DecodeValue(r *cursor.Reader, s *schema.Schema[schema.Validated], t *schema.Type) (any, error) {
	switch t.Kind {
	case schema.KindUInt:
		return DecodeUInt(r)
	case schema.KindInt:
		return DecodeInt(r)
	case schema.KindU8:
		b, err := r.ReadByte()
		return uint8(b), wrapTrunc(err, "u8")
	case schema.KindU16:
		v, err := r.ReadU16LE()
		return v, wrapTrunc(err, "u16")
	case schema.KindU32:
		v, err := r.ReadU32LE()
		return v, wrapTrunc(err, "u32")
	case schema.KindU64:
		v, err := r.ReadU64LE()
		return v, wrapTrunc(err, "u64")
	case schema.KindI8:
		b, err := r.ReadByte()
		return int8(b), wrapTrunc(err, "i8")
	case schema.KindI16:
		v, err := r.ReadI16LE()
		return v, wrapTrunc(err, "i16")
	case schema.KindI32:
		v, err := r.ReadI32LE()
		return v, wrapTrunc(err, "i32")
	case schema.KindI64:
		v, err := r.ReadI64LE()
		return v, wrapTrunc(err, "i64")
	case schema.KindF32:
		v, err := r.ReadF32LE()
		return v, wrapTrunc(err, "f32")
	case schema.KindF64:
		v, err := r.ReadF64LE()
		return v, wrapTrunc(err, "f64")
	case schema.KindBool:
		return decodeBool(r)
	case schema.KindString:
		return decodeString(r)
	case schema.KindData:
		return decodeData(r)
	case schema.KindFixedData:
		return decodeFixedData(r, t.FixedLen)
	case schema.KindVoid:
		return nil, nil
	case schema.KindEnum:
		return decodeEnum(r, t)
	case schema.KindOptional:
		return decodeOptional(r, s, t)
	case schema.KindList:
		return decodeList(r, s, t)
	case schema.KindFixedList:
		return decodeFixedList(r, s, t)
	case schema.KindMap:
		return decodeMap(r, s, t)
	case schema.KindUnion:
		return decodeUnion(r, s, t)
	case schema.KindStruct:
		return decodeStruct(r, s, t)
	case schema.KindUserDefined:
		ref, err := s.Resolve(t.Name)
		if err != nil {
			return nil, decErr("resolving %q: %v", t.Name, err)
		}
		return DecodeValue(r, s, ref)
	default:
		return nil, decErr("unknown type kind %v", t.Kind)
	}
}

func wrapTrunc(err error, what string) error {
	if err == nil {
		return nil
	}
	return decErr("truncated %s: %v", what, err)
}
