package main

import (
	"time"

	"github.com/wbrown/tablexpr"
)

// demoSchema mirrors the queryables used throughout the compiler's own
// end-to-end tests: a datetime64 index, a category column, an
// in-table integer, and a field that is valid but not backed by any
// column (string).
func demoSchema() map[string]*tablexpr.Queryable {
	return map[string]*tablexpr.Queryable{
		"index":  {Kind: tablexpr.KindDatetime64},
		"A":      {Kind: tablexpr.KindInteger},
		"string": nil,
		"cat":    {Kind: tablexpr.KindString, Meta: tablexpr.MetaCategory, Metadata: []any{"x", "y", "z"}},
	}
}

// demoRows is the built-in dataset loaded the first time the demo
// runs against an empty store. Rows are stored in wire form — the
// same int64-nanosecond and bisected-category-index shapes ConvertValue
// produces for a literal — since the store has no coercion layer of
// its own.
func demoRows() []map[string]any {
	day := func(y, m, d int) int64 {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).UnixNano()
	}
	return []map[string]any{
		{"index": day(2013, 1, 1), "A": int64(10), "cat": int64(1), "string": "bar"},
		{"index": day(2013, 1, 5), "A": int64(50), "cat": int64(0), "string": "baz"},
		{"index": day(2012, 12, 31), "A": int64(5), "cat": int64(2), "string": "bar"},
	}
}
