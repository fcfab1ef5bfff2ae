// Package clitest builds command contexts over a temporary SQLite store
// and an in-memory mirror.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/internal/storage/sqlite"
)

// Owner is the identity the test mirror reports.
const Owner = "tester"

// Env is a ready-to-run command context plus handles for assertions.
type Env struct {
	Ctx    *cli.Context
	Out    *bytes.Buffer
	Mirror *remote.MemoryMirror
	Store  *sqlite.Store
}

// Today is the fixed clock of every Env: Friday 2024-01-05, 12:00 UTC.
var Today = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

// New creates an initialized store in a temp dir.
func New(t *testing.T) *Env {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "lifelog.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	cfg := &config.Config{
		Path:     dbPath,
		Backend:  config.BackendSQLite,
		Timezone: "UTC",
		Location: time.UTC,
	}
	mirror := remote.NewMemoryMirror(Owner)
	out := &bytes.Buffer{}

	ctx := cli.NewContext(cfg, store, remote.NewSession(mirror))
	ctx.Out = out
	ctx.Now = func() time.Time { return Today }

	return &Env{Ctx: ctx, Out: out, Mirror: mirror, Store: store}
}
