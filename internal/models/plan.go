package models

import (
	"time"

	"github.com/julianstephens/lifelog/internal/constants"
)

// DailyPlanEntry is a calendar event. Date duplicates the calendar day of
// StartTime so per-day views can filter without parsing timestamps.
type DailyPlanEntry struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
	Date        string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Color       string    `json:"color"`
	Category    string    `json:"category,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
}

func (p DailyPlanEntry) Key() string { return p.ID }

func (p DailyPlanEntry) WithOwner(owner string) DailyPlanEntry {
	p.UserID = owner
	return p
}

func (p DailyPlanEntry) Normalize() DailyPlanEntry {
	if p.Date == "" && !p.StartTime.IsZero() {
		p.Date = p.StartTime.Format(constants.DateFormat)
	}
	return p
}

// Duration returns EndTime - StartTime, which may be negative.
func (p DailyPlanEntry) Duration() time.Duration {
	return p.EndTime.Sub(p.StartTime)
}
