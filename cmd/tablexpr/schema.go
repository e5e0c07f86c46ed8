package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wbrown/tablexpr"
)

// queryableSpec is the on-disk shape of one schema entry. NotInTable
// marks a field that is valid but has no backing column — it decodes
// to a nil *tablexpr.Queryable, same as a column the storage engine
// only half-describes.
type queryableSpec struct {
	Kind       tablexpr.Kind `json:"kind"`
	Meta       tablexpr.Meta `json:"meta,omitempty"`
	Metadata   []any         `json:"metadata,omitempty"`
	NotInTable bool          `json:"not_in_table,omitempty"`
}

// loadSchema reads a JSON object of field name -> queryableSpec from
// path and builds the queryables map Expr compiles against.
func loadSchema(path string) (map[string]*tablexpr.Queryable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read schema %q: %w", path, err)
	}

	var specs map[string]queryableSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("cannot parse schema %q: %w", path, err)
	}

	out := make(map[string]*tablexpr.Queryable, len(specs))
	for name, spec := range specs {
		if spec.NotInTable {
			out[name] = nil
			continue
		}
		q := spec
		out[name] = &tablexpr.Queryable{Kind: q.Kind, Meta: q.Meta, Metadata: q.Metadata}
	}
	return out, nil
}

// loadRows reads a JSON array of row objects from path.
func loadRows(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read data %q: %w", path, err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse data %q: %w", path, err)
	}
	return rows, nil
}
