package constants

import "time"

// EntityKind names one record collection.
type EntityKind string

const (
	AppName            = "lifelog"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigPath  = "~/.config/lifelog/lifelog.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Environment variables
	EnvConfig   = "LIFELOG_CONFIG"
	EnvRemote   = "LIFELOG_REMOTE"
	EnvTimezone = "LIFELOG_TIMEZONE"

	// CommandTimeout bounds all remote calls made by a single CLI command.
	CommandTimeout = 10 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lifelog-"
	BackupFileSuffix = ".db"

	// Daemon defaults
	DefaultBackupTime  = "03:00"
	DefaultInsightTime = "08:00"

	// Entity kinds
	KindExpense    EntityKind = "expense"
	KindMood       EntityKind = "mood"
	KindHabit      EntityKind = "habit"
	KindHabitEntry EntityKind = "habit_entry"
	KindDailyPlan  EntityKind = "daily_plan"
	KindPrefs      EntityKind = "preferences"
)
