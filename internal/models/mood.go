package models

const (
	MinMoodScore = 1
	MaxMoodScore = 10
)

// Mood is one journal entry per calendar date; its id is the date.
type Mood struct {
	ID     string `json:"id"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Mood   int    `json:"mood" validate:"min=1,max=10"`
	Note   string `json:"note,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

func (m Mood) Key() string { return m.Date }

func (m Mood) WithOwner(owner string) Mood {
	m.UserID = owner
	return m
}

func (m Mood) Normalize() Mood {
	m.ID = m.Date
	return m
}
