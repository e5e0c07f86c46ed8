package expr

import (
	"fmt"

	"github.com/wbrown/tablexpr"
)

// Prune walks n, returning the single node representing role's content
// across the whole tree — nil if the subtree contributes nothing to
// that role at all.
func Prune(n Node, role Role) (Node, error) {
	switch v := n.(type) {
	case *UnaryOp:
		return pruneUnary(v, role)
	case *BinOp:
		if isLeaf(v.Lhs) && isLeaf(v.Rhs) {
			return classifyLeaf(v, role)
		}
		left, err := Prune(v.Lhs, role)
		if err != nil {
			return nil, err
		}
		right, err := Prune(v.Rhs, role)
		if err != nil {
			return nil, err
		}
		return combine(v.Op, left, right, role)
	default:
		return nil, fmt.Errorf("%w: unsupported root node %T", ErrUnsupportedConstruct, n)
	}
}

func pruneUnary(u *UnaryOp, role Role) (Node, error) {
	child, err := Prune(u.Operand, role)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}
	cb, ok := child.(*BinOp)
	if !ok {
		return nil, fmt.Errorf("%w: cannot invert %T", ErrUnsupportedConstruct, child)
	}

	switch role {
	case RoleCondition:
		if cb.Condition != nil {
			return nil, fmt.Errorf("%w: cannot invert condition", ErrUnsupportedUnary)
		}
		return nil, nil
	case RoleFilter:
		if cb.Filter != nil {
			inverted := cb.Filter.Invert()
			return &BinOp{Op: cb.Op, Lhs: cb.Lhs, Rhs: cb.Rhs, Queryables: cb.Queryables, Encoding: cb.Encoding, Filter: &inverted}, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("expr: unknown role %d", role)
	}
}

// combine implements the node-combination rules. Absorption on a
// missing side is always sound for "&": pushing down a strict subset of
// conjuncts only narrows the result further. For "|" it is sound only
// for the filter role, where the surviving side becomes the single
// residual triple applied after an otherwise-unrestricted scan; for the
// condition role a missing disjunct means the disjunction as a whole
// cannot be expressed as pushdown, so the node goes null rather than
// silently representing only part of the boolean expression.
func combine(op string, left, right Node, role Role) (Node, error) {
	if op == "|" && role == RoleCondition {
		if left == nil || right == nil {
			return nil, nil
		}
	}
	if left == nil {
		return right, nil
	}
	if right == nil {
		return left, nil
	}

	lb, lok := left.(*BinOp)
	rb, rok := right.(*BinOp)
	if !lok || !rok {
		return nil, fmt.Errorf("%w: cannot combine %T and %T", ErrUnsupportedConstruct, left, right)
	}

	switch role {
	case RoleCondition:
		if lb.Condition == nil || rb.Condition == nil {
			return nil, fmt.Errorf("%w: incomplete condition combination", ErrInvalidCondition)
		}
		cond := fmt.Sprintf("(%s %s %s)", *lb.Condition, op, *rb.Condition)
		return &BinOp{Op: op, Lhs: lb, Rhs: rb, Condition: &cond}, nil
	case RoleFilter:
		// Both sides already carry filter content (plain or joint):
		// there is no single triple that represents their combination,
		// regardless of op. Retained as a structural marker; it is an
		// error only if it survives to the final, top-level result.
		return &BinOp{Op: op, Lhs: lb, Rhs: rb, joint: true}, nil
	default:
		return nil, fmt.Errorf("expr: unknown role %d", role)
	}
}

func extractCondition(n Node) (string, error) {
	if n == nil {
		return "", nil
	}
	b, ok := n.(*BinOp)
	if !ok || b.Condition == nil {
		return "", fmt.Errorf("%w: tree produced no usable condition node", ErrInvalidCondition)
	}
	return *b.Condition, nil
}

func extractFilters(n Node) ([]tablexpr.FilterTriple, error) {
	if n == nil {
		return nil, nil
	}
	b, ok := n.(*BinOp)
	if !ok {
		return nil, fmt.Errorf("%w: tree produced no usable filter node", ErrInvalidFilter)
	}
	if b.joint {
		return nil, ErrJointFilterCollapse
	}
	if b.Filter == nil {
		return nil, fmt.Errorf("%w: tree produced no usable filter node", ErrInvalidFilter)
	}
	return []tablexpr.FilterTriple{*b.Filter}, nil
}
