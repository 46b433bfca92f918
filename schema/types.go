// Package schema models the BARE type system: primitives, aggregates, and
// user-defined references, plus the validation and compatibility analysis
// that turns a draft schema into one the codec and view packages can trust.
//
// Every variant is a single Type struct with named, typed slots per Kind,
// so aggregates can nest arbitrarily instead of being pinned to a flat
// two-level message/field shape.
package schema

import "fmt"

// Kind discriminates the variant of a Type value.
type Kind uint8

const (
	KindUInt Kind = iota
	KindInt
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindString
	KindData
	KindFixedData
	KindVoid
	KindEnum
	KindOptional
	KindList
	KindFixedList
	KindMap
	KindUnion
	KindStruct
	KindUserDefined
)

var kindNames = map[Kind]string{
	KindUInt:        "uint",
	KindInt:         "int",
	KindU8:          "u8",
	KindU16:         "u16",
	KindU32:         "u32",
	KindU64:         "u64",
	KindI8:          "i8",
	KindI16:         "i16",
	KindI32:         "i32",
	KindI64:         "i64",
	KindF32:         "f32",
	KindF64:         "f64",
	KindBool:        "bool",
	KindString:      "string",
	KindData:        "data",
	KindFixedData:   "fixed-data",
	KindVoid:        "void",
	KindEnum:        "enum",
	KindOptional:    "optional",
	KindList:        "list",
	KindFixedList:   "fixed-list",
	KindMap:         "map",
	KindUnion:       "union",
	KindStruct:      "struct",
	KindUserDefined: "user-defined",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Type is a BARE type value: a sum type over primitives, aggregates, and a
// late-bound reference to a named schema entry. Only the fields relevant to
// Kind are populated.
type Type struct {
	Kind Kind

	// FixedData(n), FixedList(_, n): element/byte count. n >= 0.
	FixedLen int

	// Enum(name->u64)
	EnumValues map[string]uint64

	// Optional(T), List(T), FixedList(T, n)
	Elem *Type

	// Map(K, V)
	Key   *Type
	Value *Type

	// Union(tag->T), tags unique u32
	Variants map[uint32]*Type

	// Struct(ordered field list)
	Fields []StructField

	// UserDefined(name)
	Name string
}

// StructField is one named, typed member of a Struct type. Field order is
// significant: it defines encoding order.
type StructField struct {
	Name string
	Type *Type
}

func UInt() *Type   { return &Type{Kind: KindUInt} }
func Int() *Type    { return &Type{Kind: KindInt} }
func U8() *Type     { return &Type{Kind: KindU8} }
func U16() *Type    { return &Type{Kind: KindU16} }
func U32() *Type    { return &Type{Kind: KindU32} }
func U64() *Type    { return &Type{Kind: KindU64} }
func I8() *Type     { return &Type{Kind: KindI8} }
func I16() *Type    { return &Type{Kind: KindI16} }
func I32() *Type    { return &Type{Kind: KindI32} }
func I64() *Type    { return &Type{Kind: KindI64} }
func F32() *Type    { return &Type{Kind: KindF32} }
func F64() *Type    { return &Type{Kind: KindF64} }
func Bool() *Type   { return &Type{Kind: KindBool} }
func String() *Type { return &Type{Kind: KindString} }
func Data() *Type   { return &Type{Kind: KindData} }
func Void() *Type   { return &Type{Kind: KindVoid} }

func FixedData(n int) *Type { return &Type{Kind: KindFixedData, FixedLen: n} }

func Enum(values map[string]uint64) *Type {
	return &Type{Kind: KindEnum, EnumValues: values}
}

func Optional(elem *Type) *Type { return &Type{Kind: KindOptional, Elem: elem} }
func List(elem *Type) *Type     { return &Type{Kind: KindList, Elem: elem} }

func FixedList(elem *Type, n int) *Type {
	return &Type{Kind: KindFixedList, Elem: elem, FixedLen: n}
}

func Map(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Value: value}
}

func Union(variants map[uint32]*Type) *Type {
	return &Type{Kind: KindUnion, Variants: variants}
}

func Struct(fields ...StructField) *Type {
	return &Type{Kind: KindStruct, Fields: fields}
}

func UserDefined(name string) *Type {
	return &Type{Kind: KindUserDefined, Name: name}
}

// Field is a convenience constructor for StructField.
func Field(name string, t *Type) StructField {
	return StructField{Name: name, Type: t}
}

// isHashablePrimitive reports whether t is eligible as a Map key under
// invariant 5: a primitive or enum, excluding Void, Data, and String
// (unbounded size, not a BARE-hashable key) as well as F32 and F64.
func isHashablePrimitive(t *Type) bool {
	switch t.Kind {
	case KindUInt, KindInt, KindU8, KindU16, KindU32, KindU64,
		KindI8, KindI16, KindI32, KindI64, KindBool, KindEnum,
		KindFixedData:
		return true
	default:
		return false
	}
}
