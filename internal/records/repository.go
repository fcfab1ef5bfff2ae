package records

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/notify"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/internal/storage"
)

// Repository groups every collection over one KV and one session.
type Repository struct {
	kv      storage.KV
	session *remote.Session
	bus     *notify.Bus

	Expenses     *ExpenseStore
	Moods        *MoodStore
	Habits       *HabitStore
	HabitEntries *HabitEntryStore
	Plans        *PlanStore
}

// New wires the stores. session and bus may be nil.
func New(kv storage.KV, session *remote.Session, bus *notify.Bus) *Repository {
	if session == nil {
		session = remote.NewSession(nil)
	}
	if bus == nil {
		bus = notify.New()
	}
	opts := Options{KV: kv, Session: session, Bus: bus}
	entries := NewHabitEntryStore(opts)

	return &Repository{
		kv:           kv,
		session:      session,
		bus:          bus,
		Expenses:     NewExpenseStore(opts),
		Moods:        NewMoodStore(opts),
		Habits:       NewHabitStore(opts, entries),
		HabitEntries: entries,
		Plans:        NewPlanStore(opts),
	}
}

func (r *Repository) Session() *remote.Session { return r.session }

func (r *Repository) Bus() *notify.Bus { return r.bus }

// Preferences reads the two single-value keys. Missing or undecodable
// values read as their zero value.
func (r *Repository) Preferences() models.Preferences {
	var prefs models.Preferences
	r.readValue(constants.KeyGender, &prefs.Gender)
	r.readValue(constants.KeyWelcomeSeen, &prefs.WelcomeSeen)
	return prefs
}

func (r *Repository) SetGender(gender string) {
	r.writeValue(constants.KeyGender, gender)
}

func (r *Repository) SetWelcomeSeen(seen bool) {
	r.writeValue(constants.KeyWelcomeSeen, seen)
}

func (r *Repository) readValue(key string, dest interface{}) {
	data, ok, err := r.kv.Get(key)
	if err != nil {
		logger.Warn("Failed to read preference", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("Failed to decode preference", "key", key, "error", err)
	}
}

func (r *Repository) writeValue(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err == nil {
		err = r.kv.Set(key, data)
	}
	if err != nil {
		logger.Error("Failed to write preference", "key", key, "error", err)
		return
	}
	r.bus.Publish(notify.Event{Kind: constants.KindPrefs})
}

// ClearAll deletes every known local key. Remote tables are left alone.
// Each failed key is logged and reported in the joined error.
func (r *Repository) ClearAll() error {
	var errs []error
	for _, key := range constants.AllLocalKeys {
		if err := r.kv.Delete(key); err != nil {
			logger.Error("Failed to clear local key", "key", key, "error", err)
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}

	for _, kind := range []constants.EntityKind{
		constants.KindExpense,
		constants.KindMood,
		constants.KindHabit,
		constants.KindHabitEntry,
		constants.KindDailyPlan,
		constants.KindPrefs,
	} {
		r.bus.Publish(notify.Event{Kind: kind})
	}
	return stderrors.Join(errs...)
}
