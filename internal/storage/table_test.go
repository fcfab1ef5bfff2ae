package storage

import (
	"errors"
	"testing"

	"github.com/julianstephens/lifelog/internal/models"
)

func newMoodTable(t *testing.T) (*Table[models.Mood], *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewTable[models.Mood](kv, "moods"), kv
}

func TestTableReadAllEmpty(t *testing.T) {
	table, _ := newMoodTable(t)
	if got := table.ReadAll(); len(got) != 0 || got == nil {
		t.Errorf("ReadAll() on missing key = %#v, want empty non-nil slice", got)
	}
}

func TestTableReadAllCorrupt(t *testing.T) {
	table, kv := newMoodTable(t)
	if err := kv.Set("moods", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if got := table.ReadAll(); len(got) != 0 {
		t.Errorf("ReadAll() on corrupt value = %v, want empty", got)
	}
}

func TestTableUpsert(t *testing.T) {
	table, _ := newMoodTable(t)

	if err := table.Upsert(models.Mood{Date: "2024-01-01", Mood: 4}, nil); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := table.Upsert(models.Mood{Date: "2024-01-02", Mood: 6}, nil); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	// same natural key replaces in place
	if err := table.Upsert(models.Mood{Date: "2024-01-01", Mood: 9}, nil); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got := table.ReadAll()
	if len(got) != 2 {
		t.Fatalf("ReadAll() len = %d, want 2", len(got))
	}
	if got[0].Date != "2024-01-01" || got[0].Mood != 9 {
		t.Errorf("first record = %+v, want replaced in place with mood 9", got[0])
	}
}

func TestTableUpsertCustomMatcher(t *testing.T) {
	table, _ := newMoodTable(t)
	_ = table.Upsert(models.Mood{Date: "2024-01-01", Mood: 4}, nil)

	byScore := func(m models.Mood) bool { return m.Mood == 4 }
	if err := table.Upsert(models.Mood{Date: "2024-02-02", Mood: 5}, byScore); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got := table.ReadAll()
	if len(got) != 1 || got[0].Date != "2024-02-02" {
		t.Errorf("ReadAll() = %+v, want matcher to replace the mood-4 record", got)
	}
}

func TestTableRemove(t *testing.T) {
	table, _ := newMoodTable(t)
	_ = table.WriteAll([]models.Mood{{Date: "a"}, {Date: "b"}, {Date: "c"}})

	n, err := table.Remove(ByKey[models.Mood]("b"))
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Remove() = %d, want 1", n)
	}

	got := table.ReadAll()
	if len(got) != 2 || got[0].Date != "a" || got[1].Date != "c" {
		t.Errorf("ReadAll() = %+v", got)
	}

	n, err = table.Remove(ByKey[models.Mood]("missing"))
	if err != nil || n != 0 {
		t.Errorf("Remove(missing) = %d, %v", n, err)
	}
}

func TestTableWriteFailure(t *testing.T) {
	table, kv := newMoodTable(t)
	kv.FailWrites = true

	if err := table.WriteAll([]models.Mood{{Date: "a"}}); err == nil {
		t.Error("WriteAll() should surface the KV failure to its caller")
	}
}

func TestTableClear(t *testing.T) {
	table, kv := newMoodTable(t)
	_ = table.WriteAll([]models.Mood{{Date: "a"}})

	if err := table.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := kv.Get("moods"); ok {
		t.Error("key still present after Clear()")
	}
}

func TestMemoryKVKeys(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set("b", []byte("1"))
	_ = kv.Set("a", []byte("2"))

	keys, err := kv.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v, want sorted [a b]", keys)
	}
}

func TestTableReadFailureLeavesDataIntact(t *testing.T) {
	table, kv := newMoodTable(t)
	_ = table.WriteAll([]models.Mood{{Date: "a"}, {Date: "b"}, {Date: "c"}})

	kv.FailReads = 1
	if err := table.Upsert(models.Mood{Date: "d"}, nil); !errors.Is(err, ErrReadFailed) {
		t.Fatalf("Upsert() error = %v, want ErrReadFailed", err)
	}
	if got := table.ReadAll(); len(got) != 3 {
		t.Fatalf("ReadAll() after failed Upsert = %+v, want the 3 original records", got)
	}

	kv.FailReads = 1
	n, err := table.Remove(ByKey[models.Mood]("a"))
	if !errors.Is(err, ErrReadFailed) || n != 0 {
		t.Fatalf("Remove() = %d, %v; want 0, ErrReadFailed", n, err)
	}
	if got := table.ReadAll(); len(got) != 3 {
		t.Fatalf("ReadAll() after failed Remove = %+v, want the 3 original records", got)
	}

	kv.FailReads = 1
	if got := table.ReadAll(); len(got) != 0 || got == nil {
		t.Errorf("ReadAll() on read failure = %#v, want empty non-nil slice", got)
	}
	if err := table.Upsert(models.Mood{Date: "d"}, nil); err != nil {
		t.Fatalf("Upsert() after recovery error = %v", err)
	}
	if got := table.ReadAll(); len(got) != 4 {
		t.Errorf("ReadAll() = %d records, want 4", len(got))
	}
}
