package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/lifelog/internal/backup"
	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/notify"
	"github.com/julianstephens/lifelog/internal/records"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/utils"
)

// ErrBackupUnsupported is returned by backup commands on the JSON-file store.
var ErrBackupUnsupported = stderrors.New("backups are only available for the SQLite store")

// Context is handed to every command's Run method.
type Context struct {
	Config  *config.Config
	Store   storage.KV
	Session *remote.Session
	Repo    *records.Repository

	// Out receives command output. Nil means stdout.
	Out io.Writer
	// Now is swapped in tests. Nil means time.Now.
	Now func() time.Time

	mu      sync.Mutex
	changed map[constants.EntityKind]int
}

// recordKinds are the collections whose changes a command reports.
var recordKinds = []constants.EntityKind{
	constants.KindExpense,
	constants.KindMood,
	constants.KindHabit,
	constants.KindHabitEntry,
	constants.KindDailyPlan,
}

// NewContext wires a repository over store and session, and starts
// counting record change events.
func NewContext(cfg *config.Config, store storage.KV, session *remote.Session) *Context {
	c := &Context{
		Config:  cfg,
		Store:   store,
		Session: session,
		Repo:    records.New(store, session, nil),
		changed: make(map[constants.EntityKind]int),
	}
	c.Repo.Bus().SubscribeKinds(c.recordChange, recordKinds...)
	return c
}

func (c *Context) recordChange(ev notify.Event) {
	c.mu.Lock()
	c.changed[ev.Kind]++
	c.mu.Unlock()
	logger.Debug("Records changed", "kind", ev.Kind)
}

// Changes returns how many change events each record kind published,
// as "kind=n" pairs sorted by kind.
func (c *Context) Changes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.changed))
	for kind, n := range c.changed {
		out = append(out, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(out)
	return out
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// PrintJSON writes v as indented JSON.
func (c *Context) PrintJSON(v interface{}) error {
	enc := json.NewEncoder(c.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Location is the configured display timezone.
func (c *Context) Location() *time.Location {
	if c.Config == nil || c.Config.Location == nil {
		return time.Local
	}
	return c.Config.Location
}

// Clock returns the current time in the configured timezone.
func (c *Context) Clock() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.Location())
}

// Today is the current calendar date in the configured timezone.
func (c *Context) Today() time.Time {
	return utils.CalendarDay(c.Clock())
}

// TodayString is Today formatted as YYYY-MM-DD.
func (c *Context) TodayString() string {
	return utils.FormatDate(c.Today())
}

// ResolveDate returns s, or today when s is empty, after checking the format.
func (c *Context) ResolveDate(s string) (string, error) {
	if s == "" {
		return c.TodayString(), nil
	}
	if !utils.ValidateDate(s) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

// Timeout bounds the remote calls of one command.
func (c *Context) Timeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.CommandTimeout)
}

// Report turns a mirror failure into a warning. The local write has already
// happened, so the command still succeeds. Any other error is returned.
func (c *Context) Report(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, errors.ErrMirror) {
		c.Println(WarningStyle.Render("Warning: saved locally but the remote mirror was not updated: " + err.Error()))
		return nil
	}
	return err
}

// Backups returns the backup manager for the local store.
func (c *Context) Backups() (*backup.Manager, error) {
	if c.Config != nil && c.Config.Backend != config.BackendSQLite {
		return nil, ErrBackupUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup snapshots the SQLite store before destructive
// commands. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.Backups()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
