package models

// Preferences are the single-value settings kept next to the collections.
type Preferences struct {
	Gender      string `json:"gender"`
	WelcomeSeen bool   `json:"welcomeSeen"`
}
