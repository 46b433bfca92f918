package schema_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/barewire/schema"
)

func TestMarshalParseRoundTrip(t *testing.T) {
	draft := schema.New("Account", map[string]*schema.Type{
		"Account": schema.Struct(
			schema.Field("id", schema.U64()),
			schema.Field("name", schema.String()),
			schema.Field("tags", schema.List(schema.String())),
			schema.Field("balance", schema.Optional(schema.I64())),
		),
	})
	v, err := draft.Validate()
	require.NoError(t, err)

	data, err := schema.Marshal(v)
	require.NoError(t, err)

	parsed, err := schema.Parse(data)
	require.NoError(t, err)
	require.Equal(t, "Account", parsed.Root())

	reValidated, err := parsed.Validate()
	require.NoError(t, err)
	require.Equal(t, v.CanonicalText(), reValidated.CanonicalText())
}

func TestWriteFileLoadFileRoundTrip(t *testing.T) {
	draft := schema.New("Msg", map[string]*schema.Type{
		"Msg": schema.Union(map[uint32]*schema.Type{
			0: schema.U32(),
			1: schema.String(),
		}),
	})
	v, err := draft.Validate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, schema.WriteFile(v, path))

	loaded, err := schema.LoadFile(path)
	require.NoError(t, err)
	loadedValidated, err := loaded.Validate()
	require.NoError(t, err)
	require.Equal(t, v.CanonicalText(), loadedValidated.CanonicalText())
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := schema.Parse([]byte(`{"root":"X","types":{"X":{"kind":"not-a-kind"}}}`))
	require.Error(t, err)
}
