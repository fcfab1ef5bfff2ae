package insights

import (
	"math"
	"time"

	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

// IsDue reports whether h is scheduled on date. Times-per-week habits may
// be done on any day.
func IsDue(h models.Habit, date time.Time) bool {
	f := h.Frequency.Normalize()
	if f.Type != models.FrequencySpecificDays {
		return true
	}
	for _, d := range f.Days {
		if d == date.Weekday() {
			return true
		}
	}
	return false
}

// WeeklyTarget is how many completions h asks for in one ISO week.
func WeeklyTarget(h models.Habit) int {
	f := h.Frequency.Normalize()
	switch f.Type {
	case models.FrequencySpecificDays:
		distinct := map[time.Weekday]bool{}
		for _, d := range f.Days {
			distinct[d] = true
		}
		return len(distinct)
	case models.FrequencyTimesPerWeek:
		return f.TimesPerWeek
	default:
		return 7
	}
}

// weekCompletions counts h's completed entries inside today's ISO week,
// capped at 7.
func weekCompletions(habitID string, entries []models.HabitEntry, today time.Time) int {
	inWeek := map[string]bool{}
	for _, d := range utils.WeekDates(today) {
		inWeek[d] = true
	}

	days := map[string]bool{}
	for _, e := range entries {
		if e.HabitID == habitID && e.Completed && inWeek[e.Date] {
			days[e.Date] = true
		}
	}
	if len(days) > 7 {
		return 7
	}
	return len(days)
}

// WeeklyCompletionRate returns 100 * completions / targets across all
// habits for today's ISO week, in [0, 100]. No targets means 0.
func WeeklyCompletionRate(habits []models.Habit, entries []models.HabitEntry, today time.Time) float64 {
	target, actual := 0, 0
	for _, h := range habits {
		target += WeeklyTarget(h)
		actual += weekCompletions(h.ID, entries, today)
	}
	if target == 0 {
		return 0
	}
	return math.Min(100, 100*float64(actual)/float64(target))
}

// DayCell is one habit on one day of the week view.
type DayCell struct {
	Date      string
	Due       bool
	Completed bool
}

// WeekRow is one habit's line in the week view.
type WeekRow struct {
	Habit     models.Habit
	Days      [7]DayCell
	Completed int
	Target    int
	Streak    int
}

// WeekTable lays out today's ISO week, Monday first, for each habit.
// Days that are not due are still shown and may be completed.
func WeekTable(habits []models.Habit, entries []models.HabitEntry, today time.Time) []WeekRow {
	done := map[string]bool{}
	for _, e := range entries {
		if e.Completed {
			done[models.HabitEntryID(e.HabitID, e.Date)] = true
		}
	}

	start := utils.WeekStart(today)
	rows := make([]WeekRow, 0, len(habits))
	for _, h := range habits {
		row := WeekRow{
			Habit:     h,
			Completed: weekCompletions(h.ID, entries, today),
			Target:    WeeklyTarget(h),
			Streak:    CurrentStreak(h.ID, entries, today),
		}
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			date := utils.FormatDate(day)
			row.Days[i] = DayCell{
				Date:      date,
				Due:       IsDue(h, day),
				Completed: done[models.HabitEntryID(h.ID, date)],
			}
		}
		rows = append(rows, row)
	}
	return rows
}
