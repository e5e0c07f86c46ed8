package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/tablexpr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSchemaDecodesNotInTableFields(t *testing.T) {
	path := writeFile(t, "schema.json", `{
		"index": {"kind": "datetime64"},
		"string": {"not_in_table": true},
		"cat": {"kind": "string", "meta": "category", "metadata": ["x", "y", "z"]}
	}`)

	schema, err := loadSchema(path)
	require.NoError(t, err)

	require.Contains(t, schema, "index")
	assert.Equal(t, tablexpr.KindDatetime64, schema["index"].Kind)

	require.Contains(t, schema, "string")
	assert.Nil(t, schema["string"])

	require.Contains(t, schema, "cat")
	assert.Equal(t, tablexpr.MetaCategory, schema["cat"].Meta)
	assert.Equal(t, []any{"x", "y", "z"}, schema["cat"].Metadata)
}

func TestLoadRowsDecodesArray(t *testing.T) {
	path := writeFile(t, "rows.json", `[{"A": 1, "string": "bar"}, {"A": 2, "string": "baz"}]`)

	rows, err := loadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bar", rows[0]["string"])
}

func TestLoadSchemaMissingFileErrors(t *testing.T) {
	_, err := loadSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
