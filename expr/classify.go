package expr

import (
	"fmt"
	"strings"

	"github.com/wbrown/tablexpr"
)

// MaxSelectors is the cardinality threshold above which an equality
// comparison degrades from condition pushdown to a residual filter.
// Bit-exact with a downstream parser limit; never change this value.
const MaxSelectors = 31

// Role is the pruning pass a node is being classified for.
type Role int

const (
	RoleCondition Role = iota
	RoleFilter
)

func isEquality(op string) bool { return op == "==" || op == "!=" }

func asValues(v any) []any {
	if lst, ok := v.([]any); ok {
		return lst
	}
	return []any{v}
}

func filterKind(op string) tablexpr.PredicateKind {
	if op == "!=" {
		return tablexpr.NotInSet
	}
	return tablexpr.InSet
}

// classifyLeaf classifies a single comparison BinOp (both operands
// already Term/Constant) for role. It never mutates b: it returns a
// fresh *BinOp carrying only the role-relevant field, or (nil, nil)
// when the comparison contributes nothing to that role.
func classifyLeaf(b *BinOp, role Role) (Node, error) {
	lhs, ok := b.Lhs.(*Term)
	if !ok {
		return nil, fmt.Errorf("%w: left operand is not a field reference", ErrUnsupportedConstruct)
	}
	q, valid := b.Queryables[lhs.Name]
	if !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryTerm, lhs.Name)
	}
	inTable := q != nil

	var rhsValue any
	if c, ok := b.Rhs.(*Constant); ok {
		rhsValue = c.Value
	} else if t, ok := b.Rhs.(*Term); ok {
		rhsValue = t.Resolved
	} else {
		return nil, fmt.Errorf("%w: right operand is not a value", ErrUnsupportedConstruct)
	}
	values := asValues(rhsValue)

	switch role {
	case RoleCondition:
		return classifyCondition(b, lhs.Name, q, inTable, values)
	case RoleFilter:
		return classifyFilter(b, lhs.Name, inTable, values)
	default:
		return nil, fmt.Errorf("expr: unknown role %d", role)
	}
}

func freshBinOp(b *BinOp) *BinOp {
	return &BinOp{Op: b.Op, Lhs: b.Lhs, Rhs: b.Rhs, Queryables: b.Queryables, Encoding: b.Encoding}
}

func classifyCondition(b *BinOp, name string, q *tablexpr.Queryable, inTable bool, values []any) (Node, error) {
	if !inTable {
		return nil, nil
	}

	out := freshBinOp(b)

	if isEquality(b.Op) {
		if len(values) > MaxSelectors {
			return nil, nil
		}
		if len(values) == 1 {
			tv, err := ConvertValue(values[0], q, b.Encoding)
			if err != nil {
				return nil, err
			}
			cond := fmt.Sprintf("(%s %s %s)", name, b.Op, tv.ToString(b.Encoding))
			out.Condition = &cond
			return out, nil
		}
		parts := make([]string, 0, len(values))
		for _, v := range values {
			tv, err := ConvertValue(v, q, b.Encoding)
			if err != nil {
				return nil, err
			}
			parts = append(parts, fmt.Sprintf("(%s %s %s)", name, b.Op, tv.ToString(b.Encoding)))
		}
		cond := "(" + strings.Join(parts, " | ") + ")"
		out.Condition = &cond
		return out, nil
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s has no comparison value", ErrInvalidQueryTerm, name)
	}
	tv, err := ConvertValue(values[0], q, b.Encoding)
	if err != nil {
		return nil, err
	}
	cond := fmt.Sprintf("(%s %s %s)", name, b.Op, tv.ToString(b.Encoding))
	out.Condition = &cond
	return out, nil
}

func classifyFilter(b *BinOp, name string, inTable bool, values []any) (Node, error) {
	out := freshBinOp(b)

	if !inTable {
		if !isEquality(b.Op) {
			return nil, fmt.Errorf("%w: %s", ErrNonIndexablePredicate, name)
		}
		out.Filter = &tablexpr.FilterTriple{
			Column:    name,
			Predicate: tablexpr.Predicate{Kind: filterKind(b.Op)},
			Values:    values,
		}
		return out, nil
	}

	if !isEquality(b.Op) || len(values) <= MaxSelectors {
		return nil, nil
	}
	out.Filter = &tablexpr.FilterTriple{
		Column:    name,
		Predicate: tablexpr.Predicate{Kind: filterKind(b.Op)},
		Values:    values,
	}
	return out, nil
}
