package demoengine

import (
	"fmt"

	"github.com/wbrown/tablexpr"
	"github.com/wbrown/tablexpr/ast"
	"github.com/wbrown/tablexpr/parser"
)

// evalCondition parses and evaluates a pushdown condition string
// produced by tablexpr.Expr against one row. Rows are expected to
// already hold wire-form values (the same coercions ConvertValue
// applies: int64 nanoseconds for datetime64, a category's bisected
// index, and so on) — the store is a columnar engine, not a decoder.
func evalCondition(condition string, row map[string]any) (bool, error) {
	if condition == "" {
		return true, nil
	}
	node, err := parser.Parse(condition)
	if err != nil {
		return false, fmt.Errorf("demoengine: cannot parse condition %q: %w", condition, err)
	}
	return evalNode(node, row)
}

func evalNode(n ast.Node, row map[string]any) (bool, error) {
	switch v := n.(type) {
	case *ast.Compare:
		return evalCompare(v, row)
	case *ast.BoolExpr:
		left, err := evalNode(v.Left, row)
		if err != nil {
			return false, err
		}
		right, err := evalNode(v.Right, row)
		if err != nil {
			return false, err
		}
		if v.Op == ast.And {
			return left && right, nil
		}
		return left || right, nil
	case *ast.Unary:
		if v.Op != ast.Invert {
			return false, fmt.Errorf("demoengine: unsupported top-level unary %s", v.Op)
		}
		inner, err := evalNode(v.Operand, row)
		if err != nil {
			return false, err
		}
		return !inner, nil
	default:
		return false, fmt.Errorf("demoengine: %T is not a boolean node", n)
	}
}

func evalCompare(c *ast.Compare, row map[string]any) (bool, error) {
	name, ok := c.Left.(*ast.Name)
	if !ok {
		return false, fmt.Errorf("demoengine: left operand %v is not a field reference", c.Left)
	}
	rhs, err := literalValue(c.Right)
	if err != nil {
		return false, err
	}
	lhs, present := row[name.Value]
	if !present {
		return false, nil
	}

	switch c.Op {
	case ast.Eq:
		return tablexpr.ValuesEqual(lhs, rhs), nil
	case ast.Ne:
		return !tablexpr.ValuesEqual(lhs, rhs), nil
	case ast.Lt:
		return tablexpr.CompareValues(lhs, rhs) < 0, nil
	case ast.Le:
		return tablexpr.CompareValues(lhs, rhs) <= 0, nil
	case ast.Gt:
		return tablexpr.CompareValues(lhs, rhs) > 0, nil
	case ast.Ge:
		return tablexpr.CompareValues(lhs, rhs) >= 0, nil
	default:
		return false, fmt.Errorf("demoengine: unsupported comparison operator %s", c.Op)
	}
}

func literalValue(n ast.Node) (any, error) {
	switch v := n.(type) {
	case *ast.Literal:
		return v.Value, nil
	case *ast.Unary:
		if v.Op != ast.Neg {
			return nil, fmt.Errorf("demoengine: unary %s not valid in a condition value", v.Op)
		}
		inner, err := literalValue(v.Operand)
		if err != nil {
			return nil, err
		}
		switch x := inner.(type) {
		case int64:
			return -x, nil
		case float64:
			return -x, nil
		default:
			return nil, fmt.Errorf("demoengine: cannot negate %T", inner)
		}
	default:
		return nil, fmt.Errorf("demoengine: %T is not a literal value", n)
	}
}
