package records

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/validation"
)

type HabitEntryStore struct {
	*Store[models.HabitEntry]
}

func NewHabitEntryStore(opts Options) *HabitEntryStore {
	return &HabitEntryStore{
		Store: NewStore[models.HabitEntry](opts, constants.KindHabitEntry, constants.KeyHabitEntries, constants.TableHabitEntries,
			func(e models.HabitEntry) error { return validation.Record("habit entry", e) }),
	}
}

// ForHabit returns the entries of one habit, oldest date first.
func (s *HabitEntryStore) ForHabit(ctx context.Context, habitID string) []models.HabitEntry {
	var out []models.HabitEntry
	for _, e := range s.GetAll(ctx) {
		if e.HabitID == habitID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Toggle flips the completion flag for (habitID, date), creating a
// completed entry when none exists. Entries are never removed here.
func (s *HabitEntryStore) Toggle(ctx context.Context, habitID, date string) (models.HabitEntry, error) {
	key := models.HabitEntryID(habitID, date)
	entry, err := s.Get(ctx, key)
	switch {
	case err == nil:
		entry.Completed = !entry.Completed
	case stderrors.Is(err, errors.ErrNotFound):
		entry = models.HabitEntry{HabitID: habitID, Date: date, Completed: true}
	default:
		return entry, err
	}
	return s.Save(ctx, entry)
}

// SetCompleted writes an explicit completion state for (habitID, date).
func (s *HabitEntryStore) SetCompleted(ctx context.Context, habitID, date string, completed bool) (models.HabitEntry, error) {
	return s.Save(ctx, models.HabitEntry{HabitID: habitID, Date: date, Completed: completed})
}

type HabitStore struct {
	*Store[models.Habit]
	entries *HabitEntryStore
}

func NewHabitStore(opts Options, entries *HabitEntryStore) *HabitStore {
	return &HabitStore{
		Store:   NewStore[models.Habit](opts, constants.KindHabit, constants.KeyHabits, constants.TableHabits, validation.Habit),
		entries: entries,
	}
}

// Delete removes the habit and every entry recorded for it.
func (s *HabitStore) Delete(ctx context.Context, id string) error {
	habitErr := s.Store.Delete(ctx, id)
	_, entryErr := s.entries.DeleteWhere(ctx, func(e models.HabitEntry) bool {
		return e.HabitID == id
	})
	return stderrors.Join(habitErr, entryErr)
}

// FindByName returns the first habit whose name matches exactly.
func (s *HabitStore) FindByName(ctx context.Context, name string) (models.Habit, error) {
	for _, h := range s.GetAll(ctx) {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, errors.ErrNotFound
}
