// Package records is the local-first record layer: every collection is
// written to the local KV first and mirrored to the remote, when a session
// owner is known, on a best-effort basis.
package records

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/notify"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/internal/storage"
)

// ValidateFunc rejects a record before it touches storage.
type ValidateFunc[T any] func(T) error

// Store composes one local table with its remote mirror table.
type Store[T models.Record[T]] struct {
	kind        constants.EntityKind
	table       *storage.Table[T]
	remoteTable string
	session     *remote.Session
	bus         *notify.Bus
	validate    ValidateFunc[T]
}

// Options carries the dependencies shared by every store of a repository.
type Options struct {
	KV      storage.KV
	Session *remote.Session
	Bus     *notify.Bus
}

func NewStore[T models.Record[T]](opts Options, kind constants.EntityKind, localKey, remoteTable string, validate ValidateFunc[T]) *Store[T] {
	return &Store[T]{
		kind:        kind,
		table:       storage.NewTable[T](opts.KV, localKey),
		remoteTable: remoteTable,
		session:     opts.Session,
		bus:         opts.Bus,
		validate:    validate,
	}
}

func (s *Store[T]) Kind() constants.EntityKind {
	return s.kind
}

// owner returns the session owner and its mirror, or ok=false when the
// store runs local-only.
func (s *Store[T]) owner(ctx context.Context) (string, remote.Mirror, bool) {
	owner, ok := s.session.CurrentOwner(ctx)
	if !ok {
		return "", nil, false
	}
	mirror := s.session.Mirror()
	if mirror == nil {
		return "", nil, false
	}
	return owner, mirror, true
}

// Local returns the local table contents, normalized.
func (s *Store[T]) Local() []T {
	local := s.table.ReadAll()
	for i := range local {
		local[i] = local[i].Normalize()
	}
	return local
}

// GetAll returns remote rows overlaid with local records. For any key
// present on both sides the local record wins. If the remote fetch fails
// the local records are returned alone.
func (s *Store[T]) GetAll(ctx context.Context) []T {
	local := s.Local()

	owner, mirror, ok := s.owner(ctx)
	if !ok {
		return local
	}

	rows, err := mirror.FetchAll(ctx, s.remoteTable, owner)
	if err != nil {
		logger.Warn("Remote fetch failed, using local data", "table", s.remoteTable, "error", err)
		return local
	}

	merged := make([]T, 0, len(rows)+len(local))
	index := make(map[string]int, len(rows)+len(local))
	for _, raw := range rows {
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			logger.Warn("Skipping undecodable remote row", "table", s.remoteTable, "error", err)
			continue
		}
		r = r.Normalize()
		if i, seen := index[r.Key()]; seen {
			merged[i] = r
			continue
		}
		index[r.Key()] = len(merged)
		merged = append(merged, r)
	}

	for _, r := range local {
		if i, seen := index[r.Key()]; seen {
			merged[i] = r
			continue
		}
		index[r.Key()] = len(merged)
		merged = append(merged, r)
	}
	return merged
}

// Get returns the record with the given key from the merged view.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	for _, r := range s.GetAll(ctx) {
		if r.Key() == key {
			return r, nil
		}
	}
	var zero T
	return zero, errors.ErrNotFound
}

// Save validates record as given, normalizes it, then writes it locally
// and to the mirror. A mirror failure is returned wrapped in
// errors.ErrMirror; the local write is kept either way. A local write
// failure is logged only, and no change event is published for it.
func (s *Store[T]) Save(ctx context.Context, record T) (T, error) {
	if s.validate != nil {
		if err := s.validate(record); err != nil {
			return record, err
		}
	}
	record = record.Normalize()

	owner, mirror, remoteOK := s.owner(ctx)
	if remoteOK {
		record = record.WithOwner(owner)
	}

	written := true
	if err := s.table.Upsert(record, nil); err != nil {
		logger.Error("Local write failed", "key", s.table.Key(), "error", err)
		written = false
	}

	var mirrorErr error
	if remoteOK {
		mirrorErr = s.pushRemote(ctx, mirror, owner, record)
	}

	if written {
		s.publish()
	}
	return record, mirrorErr
}

func (s *Store[T]) pushRemote(ctx context.Context, mirror remote.Mirror, owner string, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Mirror("upsert", s.remoteTable, err)
	}
	if err := mirror.Upsert(ctx, s.remoteTable, owner, record.Key(), data); err != nil {
		logger.Warn("Remote upsert failed", "table", s.remoteTable, "key", record.Key(), "error", err)
		return errors.Mirror("upsert", s.remoteTable, err)
	}
	return nil
}

// Delete removes the record with key locally and on the mirror. A change
// event is published only when a local record was removed or the mirror
// accepted the delete.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	removed, err := s.table.Remove(storage.ByKey[T](key))
	if err != nil {
		logger.Error("Local delete failed", "key", s.table.Key(), "error", err)
	}

	changed := removed > 0
	var mirrorErr error
	if owner, mirror, ok := s.owner(ctx); ok {
		mirrorErr = s.deleteRemote(ctx, mirror, owner, key)
		changed = changed || mirrorErr == nil
	}

	if changed {
		s.publish()
	}
	return mirrorErr
}

// DeleteWhere removes every record in the merged view that matches, and
// returns how many there were.
func (s *Store[T]) DeleteWhere(ctx context.Context, match storage.Matcher[T]) (int, error) {
	var doomed []string
	for _, r := range s.GetAll(ctx) {
		if match(r) {
			doomed = append(doomed, r.Key())
		}
	}

	if _, err := s.table.Remove(match); err != nil {
		logger.Error("Local delete failed", "key", s.table.Key(), "error", err)
	}

	var errs []error
	if owner, mirror, ok := s.owner(ctx); ok {
		for _, key := range doomed {
			if err := s.deleteRemote(ctx, mirror, owner, key); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(doomed) > 0 {
		s.publish()
	}
	return len(doomed), stderrors.Join(errs...)
}

func (s *Store[T]) deleteRemote(ctx context.Context, mirror remote.Mirror, owner, key string) error {
	if err := mirror.Delete(ctx, s.remoteTable, owner, key); err != nil {
		logger.Warn("Remote delete failed", "table", s.remoteTable, "key", key, "error", err)
		return errors.Mirror("delete", s.remoteTable, err)
	}
	return nil
}

func (s *Store[T]) publish() {
	s.bus.Publish(notify.Event{Kind: s.kind})
}
