package records

import (
	"context"
	"sort"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/validation"
)

// MoodStore keys moods by date; saving a second mood for a date replaces
// the first.
type MoodStore struct {
	*Store[models.Mood]
}

func NewMoodStore(opts Options) *MoodStore {
	return &MoodStore{
		Store: NewStore[models.Mood](opts, constants.KindMood, constants.KeyMoods, constants.TableMoods,
			func(m models.Mood) error { return validation.Record("mood", m) }),
	}
}

// Sorted returns every mood, newest date first.
func (s *MoodStore) Sorted(ctx context.Context) []models.Mood {
	moods := s.GetAll(ctx)
	sort.Slice(moods, func(i, j int) bool { return moods[i].Date > moods[j].Date })
	return moods
}
