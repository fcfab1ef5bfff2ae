// Package insights derives streaks, completion rates and weekly summaries
// from stored records. Everything here is a pure function of its inputs.
package insights

import (
	"sort"
	"time"

	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

// completedDays returns the distinct calendar days on which habitID was
// completed, newest first. Entries with unparseable dates are ignored.
func completedDays(habitID string, entries []models.HabitEntry) []time.Time {
	seen := map[string]bool{}
	var days []time.Time
	for _, e := range entries {
		if e.HabitID != habitID || !e.Completed || seen[e.Date] {
			continue
		}
		d, err := utils.ParseDate(e.Date)
		if err != nil {
			continue
		}
		seen[e.Date] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// CurrentStreak counts consecutive completed days ending at the most recent
// completion. The streak is alive only if that completion is today or
// yesterday; counting stops at the first missing day. Every calendar day
// counts, whatever the habit's frequency.
func CurrentStreak(habitID string, entries []models.HabitEntry, today time.Time) int {
	days := completedDays(habitID, entries)
	if len(days) == 0 {
		return 0
	}

	gap := utils.DaysBetween(days[0], utils.CalendarDay(today))
	if gap != 0 && gap != 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days.
func LongestStreak(habitID string, entries []models.HabitEntry) int {
	days := completedDays(habitID, entries)
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i], days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
