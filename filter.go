package tablexpr

import "fmt"

// PredicateKind is the shape of a residual filter predicate. Keeping it
// as a tagged struct rather than a closure means it stays comparable,
// serializable, and trivially invertible — useful to a storage engine
// that wants to introspect or cache the predicate, not just call it.
type PredicateKind int

const (
	InSet PredicateKind = iota
	NotInSet
)

// Predicate is "axis.isin(values)" or its negation.
type Predicate struct {
	Kind PredicateKind
}

// Invert swaps InSet and NotInSet.
func (p Predicate) Invert() Predicate {
	if p.Kind == InSet {
		return Predicate{Kind: NotInSet}
	}
	return Predicate{Kind: InSet}
}

// Eval applies the predicate to a single axis value against the
// triple's value-set.
func (p Predicate) Eval(axisValue any, values []any) bool {
	in := false
	for _, v := range values {
		if ValuesEqual(axisValue, v) {
			in = true
			break
		}
	}
	if p.Kind == NotInSet {
		return !in
	}
	return in
}

func (p Predicate) String() string {
	if p.Kind == NotInSet {
		return "not isin"
	}
	return "isin"
}

// FilterTriple is one residual-filter clause: a column name, a
// predicate, and the value-set it tests membership against. The
// storage engine applies every triple in a filter list as an implicit
// AND over surviving rows.
type FilterTriple struct {
	Column    string
	Predicate Predicate
	Values    []any
}

// Invert returns a FilterTriple with the predicate negated and the
// same value-set — inverting twice is the identity.
func (f FilterTriple) Invert() FilterTriple {
	return FilterTriple{Column: f.Column, Predicate: f.Predicate.Invert(), Values: f.Values}
}

func (f FilterTriple) String() string {
	return fmt.Sprintf("[Filter : [%s] -> [%s %v]]", f.Column, f.Predicate, f.Values)
}
