package records

import (
	"context"
	"sort"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/validation"
)

type PlanStore struct {
	*Store[models.DailyPlanEntry]
}

func NewPlanStore(opts Options) *PlanStore {
	return &PlanStore{
		Store: NewStore[models.DailyPlanEntry](opts, constants.KindDailyPlan, constants.KeyDailyPlans, constants.TableDailyPlans,
			func(p models.DailyPlanEntry) error { return validation.Record("daily plan", p) }),
	}
}

// ForDate returns one day's entries ordered by start time.
func (s *PlanStore) ForDate(ctx context.Context, date string) []models.DailyPlanEntry {
	var out []models.DailyPlanEntry
	for _, p := range s.GetAll(ctx) {
		if p.Date == date {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Conflicts reports overlaps and inverted entries on date. They are
// advisory; conflicting entries still save.
func (s *PlanStore) Conflicts(ctx context.Context, date string) []validation.Conflict {
	return validation.PlanConflicts(date, s.ForDate(ctx, date))
}
