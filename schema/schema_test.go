package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/schema"
)

func TestValidateMissingRoot(t *testing.T) {
	s := schema.New("Missing", map[string]*schema.Type{})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateUnresolvedReference(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.Struct(schema.Field("a", schema.UserDefined("Ghost"))),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateEmptyStructRejected(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{"root": schema.Struct()})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateDuplicateFieldNameRejected(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.Struct(
			schema.Field("a", schema.U8()),
			schema.Field("a", schema.U16()),
		),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateDuplicateEnumValueRejected(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.Enum(map[string]uint64{"a": 1, "b": 1}),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateDuplicateUnionTagRejected(t *testing.T) {
	// Construct directly: a Go map can't hold duplicate keys, so simulate
	// by using the same tag across a manual check of Validate's loop —
	// duplicate tags in a Go map[uint32]*Type are structurally impossible,
	// so this invariant is enforced by construction instead. Test a valid
	// union still validates.
	u := schema.Union(map[uint32]*schema.Type{0: schema.U8(), 1: schema.U16()})
	s := schema.New("root", map[string]*schema.Type{"root": u})
	_, err := s.Validate()
	require.NoError(t, err)
}

func TestValidateMapKeyMustBeHashable(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.Map(schema.String(), schema.U8()),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateFixedNegativeLengthRejected(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.FixedData(-1),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateFixedZeroLengthAccepted(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.FixedData(0),
	})
	v, err := s.Validate()
	require.NoError(t, err)
	sz := v.RootSize()
	require.True(t, sz.Fixed)
	require.Equal(t, uint64(0), sz.Min)
}

func TestValidateUnproductiveCycleRejected(t *testing.T) {
	// A: struct{ b: B }, B: struct{ a: A } — direct cycle, no boxing.
	s := schema.New("A", map[string]*schema.Type{
		"A": schema.Struct(schema.Field("b", schema.UserDefined("B"))),
		"B": schema.Struct(schema.Field("a", schema.UserDefined("A"))),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestValidateProductiveCycleThroughOptionalAccepted(t *testing.T) {
	s := schema.New("Node", map[string]*schema.Type{
		"Node": schema.Struct(
			schema.Field("value", schema.U32()),
			schema.Field("next", schema.Optional(schema.UserDefined("Node"))),
		),
	})
	_, err := s.Validate()
	require.NoError(t, err)
}

func TestValidateProductiveCycleThroughListAccepted(t *testing.T) {
	s := schema.New("Tree", map[string]*schema.Type{
		"Tree": schema.Struct(
			schema.Field("value", schema.I32()),
			schema.Field("children", schema.List(schema.UserDefined("Tree"))),
		),
	})
	_, err := s.Validate()
	require.NoError(t, err)
}

func TestValidateIndirectCycleThroughMapAccepted(t *testing.T) {
	s := schema.New("A", map[string]*schema.Type{
		"A": schema.Struct(schema.Field("bees", schema.Map(schema.U8(), schema.UserDefined("B")))),
		"B": schema.Struct(schema.Field("a", schema.UserDefined("A"))),
	})
	_, err := s.Validate()
	require.NoError(t, err)
}

func TestValidateFixedListDoesNotBoxRecursion(t *testing.T) {
	s := schema.New("A", map[string]*schema.Type{
		"A": schema.Struct(schema.Field("items", schema.FixedList(schema.UserDefined("A"), 2))),
	})
	_, err := s.Validate()
	require.Error(t, err)
}

func TestCanonicalTextDeterministic(t *testing.T) {
	s := schema.New("root", map[string]*schema.Type{
		"root": schema.Struct(schema.Field("a", schema.U8())),
	})
	v, err := s.Validate()
	require.NoError(t, err)
	text1 := v.CanonicalText()
	text2 := v.CanonicalText()
	require.Equal(t, text1, text2)
	require.Equal(t, "root:struct{a:u8};", text1)
}

func TestCompatibleIdenticalSchemas(t *testing.T) {
	mk := func() *schema.Schema[schema.Validated] {
		s := schema.New("root", map[string]*schema.Type{"root": schema.U32()})
		v, err := s.Validate()
		require.NoError(t, err)
		return v
	}
	report := schema.Compatible(mk(), mk())
	require.True(t, report.Compatible)
}

func TestCompatibleDiffersOnFieldAdd(t *testing.T) {
	s1, err := schema.New("root", map[string]*schema.Type{
		"root": schema.Struct(schema.Field("a", schema.U8())),
	}).Validate()
	require.NoError(t, err)

	s2, err := schema.New("root", map[string]*schema.Type{
		"root": schema.Struct(schema.Field("a", schema.U8()), schema.Field("b", schema.U8())),
	}).Validate()
	require.NoError(t, err)

	report := schema.Compatible(s1, s2)
	require.False(t, report.Compatible)
}
