package tablexpr

import "github.com/wbrown/tablexpr/expr"

// Expr compiles a boolean where-expression against a set of queryables
// into a pushdown condition string and a residual filter list. It is a
// re-export of expr.Expr: callers outside the compiler's own packages
// should never need to import tablexpr/expr directly.
type Expr = expr.Expr

// LegacyTuple is the legacy "(field, value)" / "(field, op, value)"
// where shape, re-exported from expr.LegacyTuple.
type LegacyTuple = expr.LegacyTuple

// LegacyMap is the legacy "{field, op, value}" where shape, re-exported
// from expr.LegacyMap.
type LegacyMap = expr.LegacyMap

// NewExpr builds an Expr. See expr.NewExpr for the accepted where
// shapes and frame-resolution semantics.
func NewExpr(where any, queryables map[string]*Queryable, encoding *string, frames ...map[string]any) (*Expr, error) {
	return expr.NewExpr(where, queryables, encoding, frames...)
}

// MaybeExpression reports whether s looks like it might contain a
// boolean expression, without parsing it.
func MaybeExpression(s string) bool {
	return expr.MaybeExpression(s)
}
