package view_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/codec"
	"github.com/benjamin-larsen/barewire/schema"
	"github.com/benjamin-larsen/barewire/view"
)

func mustValidate(t *testing.T, root string, types map[string]*schema.Type) *schema.Schema[schema.Validated] {
	t.Helper()
	v, err := schema.New(root, types).Validate()
	require.NoError(t, err)
	return v
}

func TestGetFixedOffsetFields(t *testing.T) {
	point := schema.Struct(
		schema.Field("x", schema.I32()),
		schema.Field("y", schema.I32()),
	)
	s := mustValidate(t, "Point", map[string]*schema.Type{"Point": point})

	buf, err := codec.Encode(s, map[string]any{"x": int32(10), "y": int32(-5)})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	x, err := vw.Get("x")
	require.NoError(t, err)
	require.Equal(t, int32(10), x)

	y, err := vw.Get("y")
	require.NoError(t, err)
	require.Equal(t, int32(-5), y)
}

func TestSetFixedFieldInPlace(t *testing.T) {
	point := schema.Struct(
		schema.Field("x", schema.I32()),
		schema.Field("y", schema.I32()),
	)
	s := mustValidate(t, "Point", map[string]*schema.Type{"Point": point})

	buf, err := codec.Encode(s, map[string]any{"x": int32(10), "y": int32(-5)})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)
	require.NoError(t, vw.Set(int32(99), "x"))

	x, err := vw.Get("x")
	require.NoError(t, err)
	require.Equal(t, int32(99), x)
}

func TestSetVariableFieldRejectsResize(t *testing.T) {
	person := schema.Struct(
		schema.Field("name", schema.String()),
		schema.Field("age", schema.U8()),
	)
	s := mustValidate(t, "Person", map[string]*schema.Type{"Person": person})

	buf, err := codec.Encode(s, map[string]any{"name": "Ada", "age": uint8(30)})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	err = vw.Set("Grace", "name")
	require.Error(t, err)

	require.NoError(t, vw.Set("Bob", "name"))
	name, err := vw.Get("name")
	require.NoError(t, err)
	require.Equal(t, "Bob", name)
}

func TestGetDynamicFieldAfterVariablePrefix(t *testing.T) {
	person := schema.Struct(
		schema.Field("name", schema.String()),
		schema.Field("age", schema.U8()),
	)
	s := mustValidate(t, "Person", map[string]*schema.Type{"Person": person})

	buf, err := codec.Encode(s, map[string]any{"name": "Alexandria", "age": uint8(42)})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	age, err := vw.Get("age")
	require.NoError(t, err)
	require.Equal(t, uint8(42), age)

	// a second Get exercises the dynamic-offset cache path
	age2, err := vw.Get("age")
	require.NoError(t, err)
	require.Equal(t, uint8(42), age2)
}

func TestNestedView(t *testing.T) {
	inner := schema.Struct(schema.Field("v", schema.U32()))
	outer := schema.Struct(
		schema.Field("tag", schema.U8()),
		schema.Field("inner", schema.UserDefined("Inner")),
	)
	s := mustValidate(t, "Outer", map[string]*schema.Type{
		"Outer": outer,
		"Inner": inner,
	})

	buf, err := codec.Encode(s, map[string]any{
		"tag":   uint8(1),
		"inner": map[string]any{"v": uint32(777)},
	})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	nested, err := vw.Nested("inner")
	require.NoError(t, err)

	v, err := nested.Get("v")
	require.NoError(t, err)
	require.Equal(t, uint32(777), v)
}

func TestGetThroughOptionalPresent(t *testing.T) {
	inner := schema.Struct(schema.Field("v", schema.U32()))
	outer := schema.Struct(
		schema.Field("maybe", schema.Optional(schema.UserDefined("Inner"))),
	)
	s := mustValidate(t, "Outer", map[string]*schema.Type{
		"Outer": outer,
		"Inner": inner,
	})

	buf, err := codec.Encode(s, map[string]any{
		"maybe": map[string]any{"v": uint32(5)},
	})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	got, err := vw.Get("maybe", "v")
	require.NoError(t, err)
	require.Equal(t, uint32(5), got)
}

func TestGetThroughAbsentOptionalIsTypeMismatch(t *testing.T) {
	inner := schema.Struct(schema.Field("v", schema.U32()))
	outer := schema.Struct(
		schema.Field("maybe", schema.Optional(schema.UserDefined("Inner"))),
	)
	s := mustValidate(t, "Outer", map[string]*schema.Type{
		"Outer": outer,
		"Inner": inner,
	})

	buf, err := codec.Encode(s, map[string]any{"maybe": nil})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	_, err = vw.Get("maybe", "v")
	require.Error(t, err)
	var mismatch *view.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestGetUnionVariantByTag(t *testing.T) {
	u := schema.Union(map[uint32]*schema.Type{
		0: schema.U8(),
		1: schema.String(),
	})
	outer := schema.Struct(schema.Field("payload", u))
	s := mustValidate(t, "Outer", map[string]*schema.Type{"Outer": outer})

	buf, err := codec.Encode(s, map[string]any{"payload": codec.Union{Tag: 1, Value: "hi"}})
	require.NoError(t, err)

	vw, err := view.New(s, buf)
	require.NoError(t, err)

	got, err := vw.Get("payload", "1")
	require.NoError(t, err)
	require.Equal(t, "hi", got)

	_, err = vw.Get("payload", "0")
	require.Error(t, err)
}
