package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/lifelog/internal/constants"
)

func setupTestDB(t *testing.T, value string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lifelog.db")
	writeValue(t, dbPath, value)
	return dbPath
}

func writeValue(t *testing.T, dbPath, value string) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value) VALUES ('k', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, value); err != nil {
		t.Fatalf("failed to write value: %v", err)
	}
}

func readValue(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var value string
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'k'`).Scan(&value); err != nil {
		t.Fatalf("failed to read value: %v", err)
	}
	return value
}

// steppedClock returns a now func that advances one minute per call.
func steppedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, "first")
	mgr := NewManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if filepath.Dir(info.Path) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want directory %s", info.Path, mgr.GetBackupDir())
	}
	if info.Size == 0 {
		t.Error("backup size is 0")
	}
	if got := readValue(t, info.Path); got != "first" {
		t.Errorf("backup value = %q, want %q", got, "first")
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create() on a missing database should fail")
	}
}

func TestCreateSameSecondGetsCounter(t *testing.T) {
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 1, 5, 9, 30, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	a, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	b, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	if a.Path == b.Path {
		t.Fatalf("two backups share a path: %s", a.Path)
	}
	if want := "lifelog-20240105-093000-1.db"; b.Name() != want {
		t.Errorf("second backup name = %s, want %s", b.Name(), want)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("List() returned %d backups, want 2", len(list))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)
	mgr.now = steppedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))

	total := constants.MaxBackups + 3
	var newest Info
	for i := 0; i < total; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
		newest = info
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != constants.MaxBackups {
		t.Fatalf("List() returned %d backups, want %d", len(list), constants.MaxBackups)
	}
	if list[0].Path != newest.Path {
		t.Errorf("newest backup = %s, want %s", list[0].Name(), newest.Name())
	}
	for i := 1; i < len(list); i++ {
		if list[i].Timestamp.After(list[i-1].Timestamp) {
			t.Errorf("List() not sorted newest first at %d", i)
		}
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "lifelog-garbage.db", "lifelog-20240101-000000-x.db", "other-20240101-000000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %v, want no backups", list)
	}
}

func TestListMissingDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "lifelog.db"))
	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %v, want empty", list)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t, "original")
	mgr := NewManager(dbPath)
	mgr.now = steppedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	writeValue(t, dbPath, "changed")

	previous, err := mgr.Restore(snap.Path)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if got := readValue(t, dbPath); got != "original" {
		t.Errorf("restored value = %q, want %q", got, "original")
	}
	if previous == nil {
		t.Fatal("Restore() did not snapshot the current database")
	}
	if got := readValue(t, previous.Path); got != "changed" {
		t.Errorf("pre-restore snapshot value = %q, want %q", got, "changed")
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t, "original")
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database at all, just some text padding it out"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("Restore() of a non-database file should fail")
	}
	if got := readValue(t, dbPath); got != "original" {
		t.Errorf("database changed after failed restore: %q", got)
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t, "v")
	mgr := NewManager(dbPath)
	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"absolute path", snap.Path, snap.Path, false},
		{"file name in backup dir", snap.Name(), snap.Path, false},
		{"unknown", "lifelog-19990101-000000.db", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mgr.Resolve(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"lifelog-20240105-093000.db", true},
		{"lifelog-20240105-093000-12.db", true},
		{"lifelog-20240105-0930.db", false},
		{"lifelog-20240105-093000-.db", false},
		{"lifelog-20240105-093000.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseName(tt.name); ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}
