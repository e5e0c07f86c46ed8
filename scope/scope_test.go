package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wbrown/tablexpr"
)

func TestResolveFrameChain(t *testing.T) {
	s := New(nil, map[string]any{"a": 1}, map[string]any{"a": 2, "b": 3})

	v, err := s.Resolve("a", false)
	assert.NoError(t, err)
	assert.Equal(t, 1, v) // innermost frame shadows outer

	v, err = s.Resolve("b", false)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = s.Resolve("missing", false)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestResolveLocalOnly(t *testing.T) {
	s := New(nil, map[string]any{"a": 1}, map[string]any{"b": 2})

	_, err := s.Resolve("b", true)
	assert.ErrorIs(t, err, ErrUndefined)

	v, err := s.Resolve("a", true)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestQueryablesSiblingNotChained(t *testing.T) {
	q := map[string]*tablexpr.Queryable{
		"index": {Kind: tablexpr.KindDatetime64},
		"known": nil,
	}
	s := New(q, map[string]any{"index": "shadow-me-not"})

	assert.True(t, s.HasQueryable("index"))
	assert.Equal(t, tablexpr.KindDatetime64, s.Queryable("index").Kind)

	assert.True(t, s.HasQueryable("known"))
	assert.Nil(t, s.Queryable("known"))

	assert.False(t, s.HasQueryable("missing"))

	// A local frame entry with the same name never affects queryables.
	v, err := s.Resolve("index", false)
	assert.NoError(t, err)
	assert.Equal(t, "shadow-me-not", v)
}

func TestWithFrame(t *testing.T) {
	s := New(nil, map[string]any{"a": 1})
	child := s.WithFrame(map[string]any{"a": 99})

	v, err := child.Resolve("a", false)
	assert.NoError(t, err)
	assert.Equal(t, 99, v)
}
