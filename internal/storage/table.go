package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/models"
)

var (
	// ErrWriteFailed is returned by KV implementations that refuse a write.
	ErrWriteFailed = errors.New("storage write failed")
	// ErrReadFailed is returned by KV implementations that cannot read.
	ErrReadFailed = errors.New("storage read failed")
)

// Matcher selects records for Upsert and Remove.
type Matcher[T any] func(T) bool

// ByKey matches records whose Key equals key.
func ByKey[T models.Record[T]](key string) Matcher[T] {
	return func(r T) bool { return r.Key() == key }
}

// Table is one record collection stored as a JSON array under a single
// key. Every operation reads and rewrites the whole array; there is no
// locking across processes.
type Table[T models.Record[T]] struct {
	kv  KV
	key string
}

func NewTable[T models.Record[T]](kv KV, key string) *Table[T] {
	return &Table[T]{kv: kv, key: key}
}

// Key returns the storage key the table lives under.
func (t *Table[T]) Key() string {
	return t.key
}

// ReadAll returns the stored records. A missing key, an undecodable value
// or a failed read yields an empty slice; the failure is logged.
func (t *Table[T]) ReadAll() []T {
	records, err := t.readAll()
	if err != nil {
		logger.Warn("Failed to read local table", "key", t.key, "error", err)
		return []T{}
	}
	return records
}

// readAll reports KV read failures so read-modify-write callers never
// mistake them for an empty table. Undecodable values still read as empty.
func (t *Table[T]) readAll() ([]T, error) {
	data, ok, err := t.kv.Get(t.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.key, err)
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Failed to decode local table", "key", t.key, "error", err)
		return []T{}, nil
	}
	if records == nil {
		return []T{}, nil
	}
	return records, nil
}

// WriteAll replaces the stored array with records.
func (t *Table[T]) WriteAll(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", t.key, err)
	}
	if err := t.kv.Set(t.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.key, err)
	}
	return nil
}

// Upsert replaces the first record matching match, or appends record when
// nothing matches. A nil matcher matches on record.Key(). Nothing is
// written when the current contents cannot be read.
func (t *Table[T]) Upsert(record T, match Matcher[T]) error {
	if match == nil {
		match = ByKey[T](record.Key())
	}
	records, err := t.readAll()
	if err != nil {
		return err
	}
	for i, r := range records {
		if match(r) {
			records[i] = record
			return t.WriteAll(records)
		}
	}
	return t.WriteAll(append(records, record))
}

// Remove drops every record matching match. It returns how many were removed.
func (t *Table[T]) Remove(match Matcher[T]) (int, error) {
	records, err := t.readAll()
	if err != nil {
		return 0, err
	}
	kept := records[:0]
	for _, r := range records {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, t.WriteAll(kept)
}

// Clear deletes the table's key entirely.
func (t *Table[T]) Clear() error {
	return t.kv.Delete(t.key)
}
