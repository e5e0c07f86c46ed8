// Package expr implements the typed half of the compiler: lowering the
// raw ast.Node tree into Term/Constant/BinOp/UnaryOp nodes, coercing
// right-hand-side literals, classifying each comparison as condition-
// or filter-eligible, pruning the tree one role at a time, and driving
// the whole pipeline through Expr.
package expr

import (
	"fmt"

	"github.com/wbrown/tablexpr"
)

// Side records which operand of a comparison a Term occupies. The left
// operand must name a queryable; the right may resolve to any value or,
// failing resolution, degrade to a bare-name string literal.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// Node is a typed AST node: *Term, *Constant, *BinOp, or *UnaryOp.
type Node interface {
	fmt.Stringer
	node()
}

// Term is a named reference. Resolved holds the value looked up at
// lowering time: the field name itself for the left side, or the
// scope-resolved value (or lenient string fallback) for the right.
type Term struct {
	Name     string
	Side     Side
	Resolved any
}

func (t *Term) node()          {}
func (t *Term) String() string { return t.Name }

// Constant is a literal value: int64, float64, string, bool, or []any
// for a list (the RHS of "in", or of a bracketed equality literal).
type Constant struct {
	Value any
}

func (c *Constant) node()          {}
func (c *Constant) String() string { return fmt.Sprintf("%v", c.Value) }

func isLeaf(n Node) bool {
	switch n.(type) {
	case *Term, *Constant:
		return true
	default:
		return false
	}
}

// BinOp is a comparison (==, !=, <, <=, >, >=) or a boolean combinator
// (&, |). Condition and Filter are nil until the pruner classifies this
// node (or a fresh node derived from it) for the corresponding role.
// joint marks a filter-role combination of two already-filter-bearing
// siblings: a structural marker with no string representation of its
// own (see prune.go and spec scenario for JointFilterBinOp).
type BinOp struct {
	Op         string
	Lhs, Rhs   Node
	Queryables map[string]*tablexpr.Queryable
	Encoding   *string

	Condition *string
	Filter    *tablexpr.FilterTriple
	joint     bool
}

func (b *BinOp) node() {}

func (b *BinOp) String() string {
	if b.Condition != nil {
		return fmt.Sprintf("[Condition : [%s]]", *b.Condition)
	}
	if b.Filter != nil {
		return fmt.Sprintf("%s", *b.Filter)
	}
	return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs)
}

// UnaryOp is logical inversion. It never survives pruning: inversion is
// always absorbed into its child, or rejected outright for a condition.
type UnaryOp struct {
	Op      string
	Operand Node
}

func (u *UnaryOp) node()          {}
func (u *UnaryOp) String() string { return fmt.Sprintf("~%s", u.Operand) }
