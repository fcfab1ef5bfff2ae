package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// Amount is a struct; compare it as a float for gt/min tags.
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			a, ok := v.Interface().(models.Amount)
			if !ok {
				return nil
			}
			f, _ := a.Float64()
			return f
		}, models.Amount{})
	})
	return validate
}

// Record validates a record's struct tags. Failures come back as an
// *errors.ValidationError keyed by field name.
func Record(kind string, record interface{}) error {
	err := instance().Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", kind, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &errors.ValidationError{Kind: kind, Fields: fields}
}

// Habit adds the recurrence checks struct tags cannot express.
func Habit(h models.Habit) error {
	if err := Record("habit", h); err != nil {
		return err
	}
	if strings.TrimSpace(h.Name) == "" {
		return &errors.ValidationError{Kind: "habit", Fields: map[string]string{"Name": "required"}}
	}
	f := h.Frequency
	switch {
	case !f.Type.IsValid():
		return &errors.ValidationError{Kind: "habit", Fields: map[string]string{"Frequency": "type"}}
	case f.Type == models.FrequencySpecificDays && len(f.Days) == 0:
		return &errors.ValidationError{Kind: "habit", Fields: map[string]string{"Frequency": "days"}}
	case f.Type == models.FrequencyTimesPerWeek && (f.TimesPerWeek < 1 || f.TimesPerWeek > 7):
		return &errors.ValidationError{Kind: "habit", Fields: map[string]string{"Frequency": "times_per_week"}}
	}
	return nil
}

// ConflictType represents the type of plan conflict
type ConflictType string

const (
	ConflictOverlappingEntries ConflictType = "overlapping_entries"
	ConflictEndBeforeStart     ConflictType = "end_before_start"
)

// Conflict represents a detected problem in a day's plan. Conflicts are
// reported, never enforced: a plan with conflicts still saves.
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string
	EntryIDs    []string
}

// PlanConflicts inspects the entries for one date.
func PlanConflicts(date string, entries []models.DailyPlanEntry) []Conflict {
	var day []models.DailyPlanEntry
	for _, e := range entries {
		if e.Date == date {
			day = append(day, e)
		}
	}
	sort.Slice(day, func(i, j int) bool {
		return day[i].StartTime.Before(day[j].StartTime)
	})

	var conflicts []Conflict
	for _, e := range day {
		if !e.EndTime.After(e.StartTime) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictEndBeforeStart,
				Description: fmt.Sprintf("%q ends at or before it starts", e.Title),
				Date:        date,
				EntryIDs:    []string{e.ID},
			})
		}
	}

	for i := 1; i < len(day); i++ {
		prev, cur := day[i-1], day[i]
		if cur.StartTime.Before(prev.EndTime) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictOverlappingEntries,
				Description: fmt.Sprintf("%q overlaps %q", cur.Title, prev.Title),
				Date:        date,
				EntryIDs:    []string{prev.ID, cur.ID},
			})
		}
	}

	return conflicts
}
