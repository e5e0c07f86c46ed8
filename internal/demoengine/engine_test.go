package demoengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/tablexpr"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	schema := map[string]*tablexpr.Queryable{
		"index":  {Kind: tablexpr.KindDatetime64},
		"A":      {Kind: tablexpr.KindInteger},
		"string": nil,
		"cat":    {Kind: tablexpr.KindString, Meta: tablexpr.MetaCategory, Metadata: []any{"x", "y", "z"}},
	}
	s, err := Open(t.TempDir(), schema)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreInsertAndEach(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.Insert(map[string]any{"A": int64(1), "string": "bar"})
	require.NoError(t, err)
	id2, err := s.Insert(map[string]any{"A": int64(2), "string": "baz"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	var seen []uint64
	err = s.Each(func(id uint64, row map[string]any) error {
		seen = append(seen, id)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{id1, id2}, seen)
}

func TestScanAppliesConditionAndFilter(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Insert(map[string]any{"A": int64(1), "string": "bar"})
	require.NoError(t, err)
	_, err = s.Insert(map[string]any{"A": int64(5), "string": "bar"})
	require.NoError(t, err)
	_, err = s.Insert(map[string]any{"A": int64(5), "string": "qux"})
	require.NoError(t, err)

	rows, err := s.Scan("(A >= 5)", []tablexpr.FilterTriple{
		{Column: "string", Predicate: tablexpr.Predicate{Kind: tablexpr.InSet}, Values: []any{"bar"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 5, rows[0].Values["A"])
	assert.Equal(t, "bar", rows[0].Values["string"])
}

func TestScanEmptyConditionMatchesEverythingPreFilter(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Insert(map[string]any{"A": int64(1)})
	require.NoError(t, err)
	_, err = s.Insert(map[string]any{"A": int64(2)})
	require.NoError(t, err)

	rows, err := s.Scan("", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestQueryCompilesAndScansEndToEnd(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Insert(map[string]any{"cat": 1, "A": int64(10)})
	require.NoError(t, err)
	_, err = s.Insert(map[string]any{"cat": 0, "A": int64(20)})
	require.NoError(t, err)

	rows, err := s.Query(`cat == "y"`, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 10, rows[0].Values["A"])
}

func TestQueryNonTableFilterEndToEnd(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Insert(map[string]any{"string": "bar"})
	require.NoError(t, err)
	_, err = s.Insert(map[string]any{"string": "baz"})
	require.NoError(t, err)

	rows, err := s.Query(`string == "bar"`, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bar", rows[0].Values["string"])
}
