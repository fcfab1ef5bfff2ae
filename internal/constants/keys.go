package constants

// Local storage keys. Each collection key holds a JSON array.
const (
	KeyExpenses     = "lifelog-expenses"
	KeyMoods        = "lifelog-moods"
	KeyHabits       = "lifelog-habits"
	KeyHabitEntries = "lifelog-habit-entries"
	KeyDailyPlans   = "lifelog-daily-plans"
	KeyGender       = "lifelog-gender"
	KeyWelcomeSeen  = "lifelog-welcome-seen"
)

// Remote table names, one per entity kind.
const (
	TableExpenses     = "expenses"
	TableMoods        = "moods"
	TableHabits       = "habits"
	TableHabitEntries = "habit_entries"
	TableDailyPlans   = "daily_plans"
)

// AllLocalKeys lists every key ClearAll removes.
var AllLocalKeys = []string{
	KeyExpenses,
	KeyMoods,
	KeyHabits,
	KeyHabitEntries,
	KeyDailyPlans,
	KeyGender,
	KeyWelcomeSeen,
}

// RemoteTables lists every remote table the mirror backends provision.
var RemoteTables = []string{
	TableExpenses,
	TableMoods,
	TableHabits,
	TableHabitEntries,
	TableDailyPlans,
}
