package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/cli/insight"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/schedule"
)

type DaemonCmd struct {
	BackupTime  string `help:"Daily backup time (HH:MM)." default:"03:00"`
	InsightTime string `help:"Monday weekly-insight time (HH:MM)." default:"08:00"`
	NoBackup    bool   `help:"Do not schedule the daily backup."`
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(sigCtx, ctx)
}

func (c *DaemonCmd) run(done context.Context, ctx *cli.Context) error {
	s, err := c.scheduler(ctx)
	if err != nil {
		return err
	}

	s.Start()
	ctx.Printf("lifelog daemon running in %s with %d job(s); press Ctrl+C to stop\n", s.Location(), s.Len())
	logger.Info("Daemon started", "jobs", s.Len(), "timezone", s.Location().String())

	<-done.Done()

	s.Stop()
	logger.Info("Daemon stopped")
	ctx.Println("lifelog daemon stopped")
	return nil
}

func (c *DaemonCmd) scheduler(ctx *cli.Context) (*schedule.Scheduler, error) {
	s := schedule.New(ctx.Location())

	if !c.NoBackup {
		if mgr, err := ctx.Backups(); err == nil {
			backupTime := c.BackupTime
			if backupTime == "" {
				backupTime = constants.DefaultBackupTime
			}
			_, err := s.Daily("backup", backupTime, func(context.Context) error {
				info, err := mgr.Create()
				if err != nil {
					return fmt.Errorf("backup failed: %w", err)
				}
				logger.Info("Backup created", "file", info.Name())
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			logger.Warn("Daily backup not scheduled", "error", err)
		}
	}

	insightTime := c.InsightTime
	if insightTime == "" {
		insightTime = constants.DefaultInsightTime
	}
	if _, err := s.Weekly("weekly-insight", time.Monday, insightTime, func(jobCtx context.Context) error {
		logWeeklyInsight(jobCtx, ctx)
		return nil
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func logWeeklyInsight(jobCtx context.Context, ctx *cli.Context) {
	w := insight.Weekly(jobCtx, ctx.Repo, ctx.Today())
	logger.Info("Weekly insight",
		"from", w.From,
		"to", w.To,
		"average_mood", w.AverageMood,
		"spent", w.TotalExpense.StringFixed(2),
		"habit_rate", w.HabitCompletionRate,
		"advice", len(w.Advice),
	)
	for _, line := range w.Lines()[1:] {
		logger.Info("Weekly insight", "line", line)
	}
}
