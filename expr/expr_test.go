package expr

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/tablexpr"
)

func scenarioQueryables() map[string]*tablexpr.Queryable {
	return map[string]*tablexpr.Queryable{
		"index":  {Kind: tablexpr.KindDatetime64},
		"string": nil,
		"A":      {Kind: tablexpr.KindInteger},
		"cat":    {Kind: tablexpr.KindString, Meta: tablexpr.MetaCategory, Metadata: []any{"x", "y", "z"}},
	}
}

func TestScenarioDatetimeCondition(t *testing.T) {
	e, err := NewExpr(`index >= "2013-01-01"`, scenarioQueryables(), nil)
	require.NoError(t, err)
	cond, filters, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Equal(t, "(index >= 1356998400000000000)", cond)
	assert.Nil(t, filters)
}

func TestScenarioNonTableEqualityBecomesFilter(t *testing.T) {
	e, err := NewExpr(`string == "bar"`, scenarioQueryables(), nil)
	require.NoError(t, err)
	cond, filters, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Empty(t, cond)
	require.Len(t, filters, 1)
	assert.Equal(t, "string", filters[0].Column)
	assert.Equal(t, tablexpr.InSet, filters[0].Predicate.Kind)
	assert.Equal(t, []any{"bar"}, filters[0].Values)
}

func TestScenarioInvertedConditionComparisonFails(t *testing.T) {
	e, err := NewExpr(`~(A == [1,2,3])`, scenarioQueryables(), nil)
	require.NoError(t, err)
	_, _, err = e.Evaluate()
	assert.ErrorIs(t, err, ErrUnsupportedUnary)
}

func TestScenarioCategoryEquality(t *testing.T) {
	e, err := NewExpr(`cat == "y"`, scenarioQueryables(), nil)
	require.NoError(t, err)
	cond, filters, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Equal(t, "(cat == 1)", cond)
	assert.Nil(t, filters)
}

func TestScenarioOverCardinalityBecomesFilter(t *testing.T) {
	values := make([]any, 40)
	for i := range values {
		values[i] = int64(i + 1)
	}
	frames := map[string]any{"vals": values}

	e, err := NewExpr(`A == vals`, scenarioQueryables(), nil, frames)
	require.NoError(t, err)
	cond, filters, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Empty(t, cond)
	require.Len(t, filters, 1)
	assert.Equal(t, "A", filters[0].Column)
	assert.Len(t, filters[0].Values, 40)
}

func TestScenarioLiteralListOverCardinalityBecomesFilter(t *testing.T) {
	parts := make([]string, 40)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", i+1)
	}
	where := fmt.Sprintf("A == [%s]", strings.Join(parts, ","))

	e, err := NewExpr(where, scenarioQueryables(), nil)
	require.NoError(t, err)
	cond, filters, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Empty(t, cond)
	require.Len(t, filters, 1)
	assert.Equal(t, "A", filters[0].Column)
	assert.Equal(t, tablexpr.InSet, filters[0].Predicate.Kind)
	require.Len(t, filters[0].Values, 40)
	assert.Equal(t, int64(1), filters[0].Values[0])
	assert.Equal(t, int64(40), filters[0].Values[39])
}

func TestScenarioDisjunctionWithFilterBranchNullsCondition(t *testing.T) {
	q := scenarioQueryables()
	frames := map[string]any{
		"t1": time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
		"t2": time.Date(2013, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	e, err := NewExpr(`(index >= t1 & index <= t2) | string == "bar"`, q, nil, frames)
	require.NoError(t, err)

	cond, filters, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Empty(t, cond)
	require.Len(t, filters, 1)
	assert.Equal(t, "string", filters[0].Column)
	assert.Equal(t, []any{"bar"}, filters[0].Values)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	e, err := NewExpr(`index >= "2013-01-01"`, scenarioQueryables(), nil)
	require.NoError(t, err)
	cond1, filters1, err1 := e.Evaluate()
	cond2, filters2, err2 := e.Evaluate()
	assert.Equal(t, err1, err2)
	assert.Equal(t, cond1, cond2)
	assert.Equal(t, filters1, filters2)
}

func TestMaybeExpression(t *testing.T) {
	assert.True(t, MaybeExpression("A == 1"))
	assert.True(t, MaybeExpression("A & B"))
	assert.False(t, MaybeExpression("just a plain name"))
}

func TestNewExprLegacyTupleWarns(t *testing.T) {
	e, err := NewExpr(LegacyTuple{Field: "A", Op: "==", Value: int64(1)}, scenarioQueryables(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, e.Warnings())
	cond, _, err := e.Evaluate()
	assert.NoError(t, err)
	assert.Equal(t, "(A == 1)", cond)
}
