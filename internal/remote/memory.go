package remote

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sort"
	"sync"
)

// ErrUnavailable is returned by a MemoryMirror switched offline.
var ErrUnavailable = stderrors.New("remote unavailable")

type memoryRow struct {
	data json.RawMessage
	seq  int
}

// MemoryMirror is an in-process Mirror for tests in dependent packages.
type MemoryMirror struct {
	mu      sync.Mutex
	owner   string
	rows    map[string]map[string]memoryRow // table/owner -> id -> row
	seq     int
	Offline bool
	// WhoAmICalls counts identity lookups.
	WhoAmICalls int
}

func NewMemoryMirror(owner string) *MemoryMirror {
	return &MemoryMirror{
		owner: owner,
		rows:  map[string]map[string]memoryRow{},
	}
}

func partition(table, owner string) string {
	return table + "/" + owner
}

func (m *MemoryMirror) SetOffline(offline bool) {
	m.mu.Lock()
	m.Offline = offline
	m.mu.Unlock()
}

func (m *MemoryMirror) WhoAmI(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WhoAmICalls++
	if m.Offline {
		return "", ErrUnavailable
	}
	return m.owner, nil
}

// FetchAll returns rows in write order, oldest first.
func (m *MemoryMirror) FetchAll(ctx context.Context, table, owner string) ([]json.RawMessage, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Offline {
		return nil, ErrUnavailable
	}

	part := m.rows[partition(table, owner)]
	rows := make([]memoryRow, 0, len(part))
	for _, r := range part {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, append(json.RawMessage(nil), r.data...))
	}
	return out, nil
}

func (m *MemoryMirror) Upsert(ctx context.Context, table, owner, id string, data json.RawMessage) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Offline {
		return ErrUnavailable
	}

	key := partition(table, owner)
	if m.rows[key] == nil {
		m.rows[key] = map[string]memoryRow{}
	}
	m.seq++
	m.rows[key][id] = memoryRow{data: append(json.RawMessage(nil), data...), seq: m.seq}
	return nil
}

func (m *MemoryMirror) Delete(ctx context.Context, table, owner, id string) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Offline {
		return ErrUnavailable
	}
	delete(m.rows[partition(table, owner)], id)
	return nil
}

// Has reports whether a row exists.
func (m *MemoryMirror) Has(table, owner, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[partition(table, owner)][id]
	return ok
}

func (m *MemoryMirror) Close() error {
	return nil
}
