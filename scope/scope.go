// Package scope implements the lexical variable lookup and queryables
// side-table that the expression compiler resolves names against.
//
// A Scope deliberately keeps the two sources separate: the queryables
// map describes the storage schema, while the frame chain is the
// caller's lexical environment (locals, globals, a chained parent
// Expr's scope). A local variable named the same as a queryable column
// never shadows it, because each side of a comparison only ever
// consults one of the two sources (see expr.Term.Side).
package scope

import (
	"errors"
	"fmt"

	"github.com/wbrown/tablexpr"
)

// ErrUndefined is returned by Resolve when a name is not bound in any
// frame of the scope chain.
var ErrUndefined = errors.New("undefined variable")

// Scope is an immutable chain of name->value frames plus a sibling
// queryables map.
type Scope struct {
	frames     []map[string]any
	queryables map[string]*tablexpr.Queryable
}

// New creates a Scope over the given frames, searched front-to-back
// (frames[0] shadows frames[1], and so on), plus a queryables map. The
// queryables map is copied defensively so later mutation by the caller
// cannot change the meaning of an in-flight compilation.
func New(queryables map[string]*tablexpr.Queryable, frames ...map[string]any) *Scope {
	q := make(map[string]*tablexpr.Queryable, len(queryables))
	for k, v := range queryables {
		q[k] = v
	}
	return &Scope{frames: frames, queryables: q}
}

// WithFrame returns a new Scope that adds frame as the innermost (first
// searched) frame, sharing the same queryables map.
func (s *Scope) WithFrame(frame map[string]any) *Scope {
	frames := make([]map[string]any, 0, len(s.frames)+1)
	frames = append(frames, frame)
	frames = append(frames, s.frames...)
	return &Scope{frames: frames, queryables: s.queryables}
}

// Resolve searches the frame chain for name. When localOnly is true,
// only the innermost frame is searched, so a name must resolve without
// falling through to outer frames.
func (s *Scope) Resolve(name string, localOnly bool) (any, error) {
	if localOnly {
		if len(s.frames) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
		}
		if v, ok := s.frames[0][name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	for _, frame := range s.frames {
		if v, ok := frame[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
}

// HasQueryable reports whether name is present in the queryables map at
// all (either as an in-table descriptor or as a valid-but-not-in-table
// nil entry).
func (s *Scope) HasQueryable(name string) bool {
	_, ok := s.queryables[name]
	return ok
}

// Queryable returns the descriptor for name, or nil if name is valid
// but not in-table (or not present at all — callers must pair this with
// HasQueryable to distinguish the two).
func (s *Scope) Queryable(name string) *tablexpr.Queryable {
	return s.queryables[name]
}

// Queryables returns the full queryables map. Callers must treat it as
// read-only: the compiler never mutates it during compilation, and
// Scope instances may be shared across concurrent compilations.
func (s *Scope) Queryables() map[string]*tablexpr.Queryable {
	return s.queryables
}
