package demoengine

import (
	"fmt"

	"github.com/wbrown/tablexpr"
)

// Row pairs a row's store-assigned ID with its decoded contents, so a
// caller can trace a result back to its origin.
type Row struct {
	ID     uint64
	Values map[string]any
}

// Scan applies a compiled condition and filter list against every row
// in the store, returning the rows that satisfy both. This is the
// demo stand-in for "the storage engine's native expression
// interpreter plus a residual filter pass" from the compiler's
// contract: condition first (the part that could have pruned an index
// scan), then every filter triple in order (logically ANDed).
func (s *Store) Scan(condition string, filters []tablexpr.FilterTriple) ([]Row, error) {
	var out []Row
	err := s.Each(func(id uint64, row map[string]any) error {
		ok, err := evalCondition(condition, row)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		for _, f := range filters {
			v, present := row[f.Column]
			if !present || !f.Predicate.Eval(v, f.Values) {
				return nil
			}
		}
		out = append(out, Row{ID: id, Values: row})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("demoengine: scan failed: %w", err)
	}
	return out, nil
}

// Query compiles where against the store's own schema and immediately
// scans it — the single call a caller reaches for when it doesn't
// need the compiled (condition, filters) pair for anything else (e.g.
// logging or caching).
func (s *Store) Query(where any, encoding *string, frames ...map[string]any) ([]Row, error) {
	e, err := tablexpr.NewExpr(where, s.queryables, encoding, frames...)
	if err != nil {
		return nil, err
	}
	condition, filters, err := e.Evaluate()
	if err != nil {
		return nil, err
	}
	return s.Scan(condition, filters)
}
