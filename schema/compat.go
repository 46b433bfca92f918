package schema

// Equal reports whether a and b are structurally identical types. Named
// cross-references compare by name rather than by recursively re-expanding
// them, so Equal terminates even over productive recursive schemas
// permits.
func Equal(a, b *Type) bool {
	return RenderType(a) == RenderType(b)
}

// CompatibilityReport is the result of comparing two validated schemas for
// wire compatibility: whether a decoder built against `new` can read bytes
// produced by a `old` encoder.
type CompatibilityReport struct {
	Compatible bool
	Reasons    []string
}

// Compatible analyzes whether new can decode data encoded against old.
//
// BARE struct fields are encoded positionally with no field tags, unlike
// e.g. protobuf — there is no space in the wire format for "skip a field I
// don't recognize" or "field absent, use default". Compatibility analysis
// is therefore deliberately conservative: two schemas are compatible only
// if their root types (and everything reachable from them) render
// identically. Any structural change — reordering fields, widening an
// integer, adding an enum value, adding a struct field — is reported
// incompatible, since positional encoding has no room for additive
// evolution without a field-numbering scheme this format doesn't have. A
// looser, cross-implementation-agnostic definition (e.g. "compatible if
// canonical union/enum additions only") is deferred until verified
// against peer implementations.
func Compatible(old, new *Schema[Validated]) CompatibilityReport {
	oldText := old.CanonicalText()
	newText := new.CanonicalText()
	if oldText == newText {
		return CompatibilityReport{Compatible: true}
	}
	return CompatibilityReport{
		Compatible: false,
		Reasons:    []string{"canonical schema text differs: positional BARE encoding requires byte-identical type graphs"},
	}
}
