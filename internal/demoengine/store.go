// Package demoengine is a minimal BadgerDB-backed columnar row store that
// exercises the (condition, filter) contract produced by tablexpr.Expr
// end to end: rows go in as plain maps, a compiled Expr comes back out
// as a scan over the rows that survived.
package demoengine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/wbrown/tablexpr"
)

// rowPrefix namespaces row keys in the shared Badger keyspace so a
// future index or metadata entry never collides with a row ID.
const rowPrefix = "row:"

// Store is a row-oriented table backed by Badger: each row is a JSON
// object keyed by an auto-incrementing row ID, alongside the queryable
// schema that Expr compiles against.
type Store struct {
	db         *badger.DB
	queryables map[string]*tablexpr.Queryable
	nextID     uint64
}

// Open creates or opens a Store at path with the given schema.
func Open(path string, queryables map[string]*tablexpr.Queryable) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("demoengine: failed to open badger: %w", err)
	}

	s := &Store{db: db, queryables: queryables}
	if err := s.loadNextID(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) loadNextID() error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var max uint64
		prefix := []byte(rowPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := strconv.ParseUint(string(it.Item().Key()[len(rowPrefix):]), 10, 64)
			if err != nil {
				continue
			}
			if id >= max {
				max = id + 1
			}
		}
		s.nextID = max
		return nil
	})
}

// Queryables returns the schema this store was opened with.
func (s *Store) Queryables() map[string]*tablexpr.Queryable {
	return s.queryables
}

// Insert adds one row and returns its assigned row ID.
func (s *Store) Insert(row map[string]any) (uint64, error) {
	id := s.nextID
	s.nextID++

	value, err := json.Marshal(row)
	if err != nil {
		return 0, fmt.Errorf("demoengine: cannot marshal row: %w", err)
	}

	key := rowKey(id)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Each visits every row in the store in key (insertion) order, calling
// fn with the row's ID and decoded contents. Each stops and returns
// fn's error the first time fn returns one.
func (s *Store) Each(fn func(id uint64, row map[string]any) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(rowPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id, err := strconv.ParseUint(string(item.Key()[len(rowPrefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("demoengine: corrupt row key %q: %w", item.Key(), err)
			}

			var row map[string]any
			err = item.Value(func(val []byte) error {
				return s.decodeRow(val, &row)
			})
			if err != nil {
				return err
			}
			if err := fn(id, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the underlying Badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

func rowKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", rowPrefix, id))
}

// decodeRow unmarshals val into row, then normalizes every json.Number
// back to the int64/float64 split the schema expects — encoding/json's
// default float64-for-everything would otherwise silently widen the
// int64 wire values rows hold (datetime64 nanoseconds, category
// indices, integer columns), breaking equality comparisons
// downstream in CompareValues/ValuesEqual.
func (s *Store) decodeRow(val []byte, row *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("demoengine: cannot decode row: %w", err)
	}

	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = s.normalizeValue(k, v)
	}
	*row = out
	return nil
}

func (s *Store) normalizeValue(key string, v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if q, present := s.queryables[key]; present && q != nil && q.Kind == tablexpr.KindFloat {
		f, _ := num.Float64()
		return f
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	f, _ := num.Float64()
	return f
}
