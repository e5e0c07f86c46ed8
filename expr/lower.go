package expr

import (
	"fmt"

	"github.com/wbrown/tablexpr/ast"
	"github.com/wbrown/tablexpr/scope"
)

// Lower converts a raw ast.Node into a typed expr.Node: it resolves the
// left side of every comparison against sc's queryables, resolves (or
// leniently falls back on) the right side against sc's frame chain,
// rewrites "in"/"=" away, and constant-folds unary minus.
func Lower(n ast.Node, sc *scope.Scope, encoding *string) (Node, error) {
	switch v := n.(type) {
	case *ast.Compare:
		return lowerCompare(v, sc, encoding)
	case *ast.BoolExpr:
		left, err := Lower(v.Left, sc, encoding)
		if err != nil {
			return nil, err
		}
		right, err := Lower(v.Right, sc, encoding)
		if err != nil {
			return nil, err
		}
		return &BinOp{Op: string(v.Op), Lhs: left, Rhs: right, Queryables: sc.Queryables(), Encoding: encoding}, nil
	case *ast.Unary:
		return lowerUnary(v, sc, encoding)
	default:
		return nil, fmt.Errorf("%w: %T is not a valid top-level expression", ErrUnsupportedConstruct, n)
	}
}

func fieldName(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.Name:
		return v.Value, true
	case *ast.Attribute:
		if base, ok := v.Base.(*ast.Name); ok && base.Value == v.Attr {
			return base.Value, true
		}
	}
	return "", false
}

func lowerCompare(c *ast.Compare, sc *scope.Scope, encoding *string) (Node, error) {
	op := c.Op
	if op == ast.Assign || op == ast.In {
		op = ast.Eq
	}

	name, ok := fieldName(c.Left)
	if !ok {
		return nil, fmt.Errorf("%w: left operand must be a field reference", ErrUnsupportedConstruct)
	}
	if !sc.HasQueryable(name) {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedName, name)
	}

	if list, ok := c.Right.(*ast.List); ok {
		return lowerListCompare(name, op, list, sc, encoding)
	}

	rhs, err := lowerValue(c.Right, sc)
	if err != nil {
		return nil, err
	}
	lhs := &Term{Name: name, Side: SideLeft, Resolved: name}
	return &BinOp{Op: string(op), Lhs: lhs, Rhs: rhs, Queryables: sc.Queryables(), Encoding: encoding}, nil
}

// lowerListCompare lowers "x in [a,b,c]" (and a direct bracketed
// equality "x == [a,b,c]") into a single BinOp carrying the whole list
// as a multi-valued Rhs, the typed-AST equivalent of the original's
// single multi-valued BinOp/conform() path. Keeping every element on
// one node — rather than splitting into an OR chain of single-value
// leaves — is what lets classify.go's MaxSelectors check see the list's
// true cardinality instead of 31 separate one-element comparisons.
func lowerListCompare(name string, op ast.CompareOp, list *ast.List, sc *scope.Scope, encoding *string) (Node, error) {
	if len(list.Elements) == 0 {
		return nil, fmt.Errorf("%w: empty list literal", ErrUnsupportedConstruct)
	}
	values := make([]any, 0, len(list.Elements))
	for _, elem := range list.Elements {
		v, err := lowerValue(elem, sc)
		if err != nil {
			return nil, err
		}
		values = append(values, valueOf(v))
	}
	lhs := &Term{Name: name, Side: SideLeft, Resolved: name}
	rhs := &Constant{Value: values}
	return &BinOp{Op: string(op), Lhs: lhs, Rhs: rhs, Queryables: sc.Queryables(), Encoding: encoding}, nil
}

// lowerValue lowers a node appearing in value position: the right side
// of a comparison, a list element, or an attribute/subscript base/index.
func lowerValue(n ast.Node, sc *scope.Scope) (Node, error) {
	switch v := n.(type) {
	case *ast.Literal:
		return &Constant{Value: v.Value}, nil
	case *ast.Name:
		if val, err := sc.Resolve(v.Value, false); err == nil {
			return &Term{Name: v.Value, Side: SideRight, Resolved: val}, nil
		}
		// Lenient fallback: an unresolved bare name on the right
		// degrades to a string literal instead of aborting.
		return &Constant{Value: v.Value}, nil
	case *ast.Unary:
		return lowerUnaryValue(v, sc)
	case *ast.Attribute:
		return lowerAttribute(v, sc)
	case *ast.Subscript:
		return lowerSubscript(v, sc)
	default:
		return nil, fmt.Errorf("%w: %T cannot appear in value position", ErrUnsupportedConstruct, n)
	}
}

func lowerUnaryValue(u *ast.Unary, sc *scope.Scope) (Node, error) {
	switch u.Op {
	case ast.Pos:
		return nil, fmt.Errorf("%w: unary plus not supported", ErrUnsupportedUnary)
	case ast.Neg:
		operand, err := lowerValue(u.Operand, sc)
		if err != nil {
			return nil, err
		}
		c, ok := operand.(*Constant)
		if !ok {
			return nil, fmt.Errorf("%w: unary minus requires a literal operand", ErrUnsupportedConstruct)
		}
		neg, err := negate(c.Value)
		if err != nil {
			return nil, err
		}
		return &Constant{Value: neg}, nil
	default:
		return nil, fmt.Errorf("%w: unary %s not valid in value position", ErrUnsupportedConstruct, u.Op)
	}
}

func negate(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return -x, nil
	case float64:
		return -x, nil
	default:
		return nil, fmt.Errorf("%w: cannot negate %T", ErrUnsupportedConstruct, v)
	}
}

// lowerUnary handles a top-level "~expr": the only unary op that may
// wrap a full boolean sub-expression rather than a scalar value.
func lowerUnary(u *ast.Unary, sc *scope.Scope, encoding *string) (Node, error) {
	switch u.Op {
	case ast.Invert:
		operand, err := Lower(u.Operand, sc, encoding)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: "~", Operand: operand}, nil
	case ast.Pos:
		return nil, fmt.Errorf("%w: unary plus not supported", ErrUnsupportedUnary)
	default:
		return nil, fmt.Errorf("%w: unary %s is only valid on a literal value", ErrUnsupportedConstruct, u.Op)
	}
}

// lowerAttribute supports only the degenerate x.x form (spec.md §4.3):
// the base resolves and is returned verbatim. Any other attribute chain
// is out of scope.
func lowerAttribute(a *ast.Attribute, sc *scope.Scope) (Node, error) {
	if base, ok := a.Base.(*ast.Name); ok && base.Value == a.Attr {
		return lowerValue(a.Base, sc)
	}
	return nil, fmt.Errorf("%w: attribute access only supported in the degenerate x.x form", ErrUnsupportedConstruct)
}

// lowerSubscript requires both Base and Index to be statically
// resolvable; Base must resolve to a []any and Index to an integer.
func lowerSubscript(s *ast.Subscript, sc *scope.Scope) (Node, error) {
	base, err := lowerValue(s.Base, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot subscript", ErrUnsupportedConstruct)
	}
	index, err := lowerValue(s.Index, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot subscript", ErrUnsupportedConstruct)
	}

	idx, ok := asInt(valueOf(index))
	if !ok {
		return nil, fmt.Errorf("%w: cannot subscript", ErrUnsupportedConstruct)
	}
	bv, ok := valueOf(base).([]any)
	if !ok || idx < 0 || idx >= len(bv) {
		return nil, fmt.Errorf("%w: cannot subscript", ErrUnsupportedConstruct)
	}
	return &Constant{Value: bv[idx]}, nil
}

func valueOf(n Node) any {
	switch v := n.(type) {
	case *Constant:
		return v.Value
	case *Term:
		return v.Resolved
	default:
		return nil
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int64:
		return int(x), true
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}
