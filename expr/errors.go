package expr

import "errors"

// Sentinel errors returned by the lowering visitor, classifier, pruner,
// and Expr driver. Each wraps additional context via fmt.Errorf's %w.
var (
	ErrUndefinedName         = errors.New("undefined name")
	ErrInvalidQueryTerm      = errors.New("invalid query term")
	ErrNonIndexablePredicate = errors.New("non-indexable predicate on non-table column")
	ErrInvalidCondition      = errors.New("not a valid condition")
	ErrInvalidFilter         = errors.New("not a valid filter")
	ErrUnsupportedUnary      = errors.New("unsupported unary operation")
	ErrJointFilterCollapse   = errors.New("unable to collapse joint filters")
	ErrUnsupportedConstruct  = errors.New("unsupported construct")
)
