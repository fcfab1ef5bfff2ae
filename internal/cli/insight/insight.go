package insight

import (
	"context"
	"time"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/insights"
	"github.com/julianstephens/lifelog/internal/records"
	"github.com/julianstephens/lifelog/internal/utils"
)

type InsightCmd struct {
	Date string `help:"Last day of the seven-day window (default: today)."`
	JSON bool   `help:"Print the insight as JSON."`
}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	w := Weekly(rctx, ctx.Repo, day)

	if c.JSON {
		return ctx.PrintJSON(w)
	}

	lines := w.Lines()
	ctx.Println(cli.HeaderStyle.Render(lines[0]))
	for _, line := range lines[1:] {
		ctx.Println(line)
	}
	return nil
}

// Weekly gathers every collection and builds the insight for the window
// ending on today.
func Weekly(ctx context.Context, repo *records.Repository, today time.Time) insights.WeeklyInsight {
	return insights.Generate(insights.Input{
		Expenses: repo.Expenses.GetAll(ctx),
		Moods:    repo.Moods.GetAll(ctx),
		Habits:   repo.Habits.GetAll(ctx),
		Entries:  repo.HabitEntries.GetAll(ctx),
	}, today)
}
