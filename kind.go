package tablexpr

import "fmt"

// Kind is the wire type of a queryable field: the type its coerced
// right-hand-side literals take once they flow into a condition string
// or a residual filter's value set.
type Kind string

const (
	KindUnknown     Kind = ""
	KindInteger     Kind = "integer"
	KindFloat       Kind = "float"
	KindBool        Kind = "bool"
	KindString      Kind = "string"
	KindDate        Kind = "date"
	KindDatetime    Kind = "datetime"
	KindDatetime64  Kind = "datetime64"
	KindTimedelta   Kind = "timedelta"
	KindTimedelta64 Kind = "timedelta64"
)

// Meta qualifies a Kind with extra semantics; today the only meta is
// "category", which turns string-like values into a bisected integer
// index against Queryable.Metadata.
type Meta string

const (
	MetaNone     Meta = ""
	MetaCategory Meta = "category"
)

// Queryable is the descriptor attached to a field name by the storage
// engine. A nil *Queryable for a name that is otherwise present in a
// Scope's Queryables map means the field is valid but not in-table: it
// can only ever contribute a residual filter, never a pushdown
// condition.
type Queryable struct {
	Kind Kind
	Meta Meta

	// Metadata is the ordered value set backing a category field's
	// string<->integer substitution. It must already be sorted
	// ascending under CompareValues; coercion finds the bisect-left
	// index of the literal being coerced.
	Metadata []any
}

func (q *Queryable) String() string {
	if q == nil {
		return "<not in-table>"
	}
	if q.Meta != MetaNone {
		return fmt.Sprintf("%s(meta=%s)", q.Kind, q.Meta)
	}
	return string(q.Kind)
}
