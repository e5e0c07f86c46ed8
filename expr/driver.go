package expr

import (
	"fmt"
	"strings"
	"time"

	"github.com/wbrown/tablexpr"
	"github.com/wbrown/tablexpr/parser"
	"github.com/wbrown/tablexpr/scope"
)

// LegacyTuple is the legacy "(field, value)" or "(field, op, value)"
// where shape. Op may be left empty to default to "==". Using it emits
// a deprecation notice onto Expr.Warnings().
type LegacyTuple struct {
	Field string
	Op    string
	Value any
}

// LegacyMap is the legacy "{field, op, value}" where shape; same
// semantics and deprecation notice as LegacyTuple.
type LegacyMap struct {
	Field string
	Op    string
	Value any
}

// Expr compiles a boolean expression against a Scope into a pushdown
// condition string and a residual filter list.
type Expr struct {
	text     string
	scope    *scope.Scope
	encoding *string
	warnings []string

	root Node
}

var operatorTokens = []string{"==", "!=", "<=", ">=", "<", ">", "&", "|", "~", "="}

// MaybeExpression reports whether s looks like it might contain a
// boolean expression, by scanning for any operator token. It is a
// purely syntactic check; it does not parse s.
func MaybeExpression(s string) bool {
	for _, tok := range operatorTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// NewExpr builds an Expr from where, which may be a string, another
// *Expr (reused verbatim, parenthesized), a []any of either (joined
// with "&"), or a LegacyTuple/LegacyMap (each normalized to a string
// and recorded via Warnings()). queryables are forwarded to a new Scope
// built over frames; encoding is carried onto each comparison during
// lowering and applied to string literals when they are coerced.
func NewExpr(where any, queryables map[string]*tablexpr.Queryable, encoding *string, frames ...map[string]any) (*Expr, error) {
	e := &Expr{scope: scope.New(queryables, frames...), encoding: encoding}

	text, err := e.normalize(where)
	if err != nil {
		return nil, err
	}
	e.text = text

	raw, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	node, err := Lower(raw, e.scope, encoding)
	if err != nil {
		return nil, err
	}
	e.root = node
	return e, nil
}

func (e *Expr) normalize(where any) (string, error) {
	switch v := where.(type) {
	case string:
		return v, nil
	case *Expr:
		return parenthesize(v.text), nil
	case []any:
		return e.normalizeSequence(v)
	case LegacyTuple:
		return e.normalizeLegacy(v.Field, v.Op, v.Value)
	case LegacyMap:
		return e.normalizeLegacy(v.Field, v.Op, v.Value)
	default:
		return "", fmt.Errorf("%w: unsupported where value of type %T", ErrUnsupportedConstruct, where)
	}
}

func parenthesize(s string) string { return "(" + s + ")" }

func (e *Expr) normalizeSequence(items []any) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			parts = append(parts, parenthesize(v))
		case *Expr:
			parts = append(parts, parenthesize(v.text))
		default:
			return "", fmt.Errorf("%w: sequence element of type %T", ErrUnsupportedConstruct, item)
		}
	}
	return strings.Join(parts, " & "), nil
}

func (e *Expr) normalizeLegacy(field, op string, value any) (string, error) {
	e.warn(fmt.Sprintf("legacy (field, op, value) where shape for %q is deprecated; pass a string expression", field))
	if op == "" {
		op = "=="
	}
	return fmt.Sprintf("%s %s %s", field, op, legacyQuote(value)), nil
}

func (e *Expr) warn(msg string) {
	e.warnings = append(e.warnings, msg)
}

// Warnings returns the deprecation notices accumulated while
// normalizing legacy where shapes, in the order they were recorded.
func (e *Expr) Warnings() []string { return e.warnings }

// Evaluate prunes the compiled tree at both roles and returns the
// pushdown condition string (empty when there is none) and the
// residual filter list (nil when there is none).
func (e *Expr) Evaluate() (string, []tablexpr.FilterTriple, error) {
	// Prune failures (unparseable values, unsupported inversions, and so
	// on) are specific sentinel errors in their own right and propagate
	// unwrapped. InvalidCondition/InvalidFilter are reserved for the
	// narrower case where pruning succeeds but yields no usable node at
	// all for that role.
	condNode, err := Prune(e.root, RoleCondition)
	if err != nil {
		return "", nil, err
	}
	cond, err := extractCondition(condNode)
	if err != nil {
		return "", nil, err
	}

	filterNode, err := Prune(e.root, RoleFilter)
	if err != nil {
		return "", nil, err
	}
	filters, err := extractFilters(filterNode)
	if err != nil {
		return "", nil, err
	}

	return cond, filters, nil
}

func (e *Expr) String() string {
	if e.root != nil {
		return e.root.String()
	}
	return e.text
}

// legacyQuote renders a legacy where value's text form: date-like
// scalars are single-quoted, lists are rewritten element-wise, other
// strings are double-quoted, and everything else uses its natural form.
func legacyQuote(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, elem := range x {
			parts[i] = legacyQuote(elem)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case time.Time:
		return "'" + x.Format("2006-01-02") + "'"
	case string:
		if looksDateLike(x) {
			return "'" + x + "'"
		}
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func looksDateLike(s string) bool {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "20060102"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
