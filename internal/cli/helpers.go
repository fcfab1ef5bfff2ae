package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/lifelog/internal/models"
)

// NewID returns a fresh record id.
func NewID() string {
	return uuid.New().String()
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	seen := map[time.Weekday]bool{}
	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		wd, ok := dayMap[part]
		if !ok {
			// 0=Sunday, 6=Saturday
			num, err := strconv.Atoi(part)
			if err != nil || num < 0 || num > 6 {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
			wd = time.Weekday(num)
		}
		if !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
	}
	return weekdays, nil
}

// ParseFrequency builds a recurrence rule from the habit flags. days wins
// over times; neither means daily.
func ParseFrequency(days string, times int) (models.Frequency, error) {
	switch {
	case strings.TrimSpace(days) != "":
		wds, err := ParseWeekdays(days)
		if err != nil {
			return models.Frequency{}, err
		}
		return models.Frequency{Type: models.FrequencySpecificDays, Days: wds}, nil
	case times > 0:
		if times > 7 {
			return models.Frequency{}, fmt.Errorf("times per week must be between 1 and 7, got %d", times)
		}
		return models.Frequency{Type: models.FrequencyTimesPerWeek, TimesPerWeek: times}, nil
	default:
		return models.Frequency{Type: models.FrequencyDaily}, nil
	}
}

// Confirm asks a yes/no question unless yes is already set.
func Confirm(title, description string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
