package models

import (
	"fmt"
	"time"
)

type FrequencyType string

const (
	FrequencyDaily        FrequencyType = "daily"
	FrequencySpecificDays FrequencyType = "specific_days"
	FrequencyTimesPerWeek FrequencyType = "times_per_week"
)

// Frequency is a habit's recurrence rule.
type Frequency struct {
	Type         FrequencyType  `json:"type"`
	Days         []time.Weekday `json:"days,omitempty"`
	TimesPerWeek int            `json:"timesPerWeek,omitempty"`
}

func (f FrequencyType) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencySpecificDays, FrequencyTimesPerWeek:
		return true
	default:
		return false
	}
}

// Normalize repairs rules written before recurrence existed or with
// out-of-range values. Anything unusable becomes daily.
func (f Frequency) Normalize() Frequency {
	switch f.Type {
	case FrequencySpecificDays:
		if len(f.Days) == 0 {
			return Frequency{Type: FrequencyDaily}
		}
		return Frequency{Type: FrequencySpecificDays, Days: f.Days}
	case FrequencyTimesPerWeek:
		n := f.TimesPerWeek
		if n < 1 {
			n = 1
		}
		if n > 7 {
			n = 7
		}
		return Frequency{Type: FrequencyTimesPerWeek, TimesPerWeek: n}
	default:
		return Frequency{Type: FrequencyDaily}
	}
}

func (f Frequency) String() string {
	switch f.Type {
	case FrequencySpecificDays:
		s := ""
		for i, d := range f.Days {
			if i > 0 {
				s += ","
			}
			s += d.String()[:3]
		}
		return "on " + s
	case FrequencyTimesPerWeek:
		return fmt.Sprintf("%dx per week", f.TimesPerWeek)
	default:
		return "daily"
	}
}

type Habit struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	Frequency Frequency `json:"frequency"`
	UserID    string    `json:"user_id,omitempty"`
}

func (h Habit) Key() string { return h.ID }

func (h Habit) WithOwner(owner string) Habit {
	h.UserID = owner
	return h
}

func (h Habit) Normalize() Habit {
	h.Frequency = h.Frequency.Normalize()
	return h
}

// HabitEntry marks a habit for one calendar date. A missing entry means
// the habit was not completed that day.
type HabitEntry struct {
	ID        string `json:"id"`
	HabitID   string `json:"habitId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Completed bool   `json:"completed"`
	UserID    string `json:"user_id,omitempty"`
}

// HabitEntryID derives the deterministic entry id for a habit and date.
func HabitEntryID(habitID, date string) string {
	return habitID + "-" + date
}

func (e HabitEntry) Key() string { return HabitEntryID(e.HabitID, e.Date) }

func (e HabitEntry) WithOwner(owner string) HabitEntry {
	e.UserID = owner
	return e
}

func (e HabitEntry) Normalize() HabitEntry {
	e.ID = HabitEntryID(e.HabitID, e.Date)
	return e
}
