package main

import (
	"context"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/cli/backups"
	"github.com/julianstephens/lifelog/internal/cli/data"
	"github.com/julianstephens/lifelog/internal/cli/expenses"
	"github.com/julianstephens/lifelog/internal/cli/habits"
	"github.com/julianstephens/lifelog/internal/cli/insight"
	"github.com/julianstephens/lifelog/internal/cli/moods"
	"github.com/julianstephens/lifelog/internal/cli/plans"
	"github.com/julianstephens/lifelog/internal/cli/system"
	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Local store path. A .json extension selects the JSON file backend." env:"LIFELOG_CONFIG" default:"~/.config/lifelog/lifelog.db"`
	Mirror   string `name:"remote" help:"Remote mirror connection string (postgres or redis). Passwords must be stored with 'lifelog remote set' instead."`
	Timezone string `help:"IANA timezone used for 'today' and plan times." env:"LIFELOG_TIMEZONE" default:"Local"`
	Debug    bool   `help:"Enable debug logging."`

	Init    system.InitCmd      `cmd:"" help:"Initialize lifelog storage."`
	Expense expenses.ExpenseCmd `cmd:"" help:"Track expenses and income."`
	Mood    moods.MoodCmd       `cmd:"" help:"Record daily mood."`
	Habit   habits.HabitCmd     `cmd:"" help:"Manage habits and habit tracking."`
	Plan    plans.PlanCmd       `cmd:"" help:"Manage time-blocked plans."`
	Insight insight.InsightCmd  `cmd:"" help:"Show the weekly insight."`
	Export  data.ExportCmd      `cmd:"" help:"Export all records."`
	Clear   data.ClearCmd       `cmd:"" help:"Delete all local records."`
	Prefs   data.PrefsCmd       `cmd:"" help:"Show or change preferences."`
	Remote  system.RemoteCmd    `cmd:"" help:"Manage the remote mirror."`
	Backup  backups.BackupCmd   `cmd:"" help:"Manage database backups."`
	Daemon  system.DaemonCmd    `cmd:"" help:"Run scheduled backups and weekly insights."`
}

// offline commands touch neither the remote mirror nor an existing store.
var offline = map[string]bool{
	"init":          true,
	"remote set":    true,
	"remote get":    true,
	"remote delete": true,
}

func commandPath(kctx *kong.Context) string {
	var parts []string
	for _, f := range strings.Fields(kctx.Command()) {
		if strings.HasPrefix(f, "<") {
			continue
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, " ")
}

func main() {
	config.LoadEnv(os.Getenv(constants.EnvConfig))

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal life tracker for expenses, moods, habits and plans"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := commandPath(kctx)

	cfg, err := config.Resolve(config.Options{
		ConfigPath: CLI.Config,
		Remote:     CLI.Mirror,
		Timezone:   CLI.Timezone,
		Debug:      CLI.Debug,
		NoKeyring:  offline[command],
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Starting command", "command", command, "store", cfg.Path, "backend", cfg.Backend)

	store := cfg.OpenLocal()
	if !offline[command] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	var appCtx *cli.Context
	if offline[command] {
		appCtx = cli.NewContext(cfg, store, nil)
	} else {
		connectCtx, cancel := context.WithTimeout(context.Background(), constants.CommandTimeout)
		session := cfg.OpenSession(connectCtx)
		cancel()
		appCtx = cli.NewContext(cfg, store, session)
	}

	runErr := kctx.Run(appCtx)
	logger.Debug("Command finished", "command", command, "changes", appCtx.Changes())

	if m := appCtx.Session.Mirror(); m != nil {
		if err := m.Close(); err != nil {
			logger.Warn("Failed to close remote mirror", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Warn("Failed to close local store", "error", err)
	}
	if runErr != nil {
		errors.Fatal(runErr)
	}
}
