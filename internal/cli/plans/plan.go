package plans

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
	"github.com/julianstephens/lifelog/internal/validation"
)

type PlanCmd struct {
	Add    PlanAddCmd    `cmd:"" help:"Add an entry to a day's plan."`
	List   PlanListCmd   `cmd:"" help:"Show the plan for a day."`
	Delete PlanDeleteCmd `cmd:"" help:"Delete a plan entry."`
}

type PlanAddCmd struct {
	Title       string `arg:"" help:"Entry title."`
	Start       string `help:"Start time (HH:MM)." required:""`
	End         string `help:"End time (HH:MM)." required:""`
	Date        string `help:"Date in YYYY-MM-DD format (default: today)."`
	Description string `help:"Optional description."`
	Category    string `help:"Optional category."`
	Color       string `help:"Display color." default:"#3b82f6"`
}

func (c *PlanAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	start, err := utils.ParseDateTime(date, c.Start, ctx.Location())
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := utils.ParseDateTime(date, c.End, ctx.Location())
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}

	entry := models.DailyPlanEntry{
		ID:          cli.NewID(),
		Title:       c.Title,
		Description: c.Description,
		StartTime:   start,
		EndTime:     end,
		Date:        date,
		Color:       c.Color,
		Category:    c.Category,
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	saved, err := ctx.Repo.Plans.Save(rctx, entry)
	if err := ctx.Report(err); err != nil {
		return err
	}
	ctx.Printf("Added %s-%s %s on %s [%s]\n",
		saved.StartTime.Format(constants.TimeFormat), saved.EndTime.Format(constants.TimeFormat), saved.Title, saved.Date, saved.ID)

	printConflicts(ctx, ctx.Repo.Plans.Conflicts(rctx, date))
	return nil
}

type PlanListCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *PlanListCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	entries := ctx.Repo.Plans.ForDate(rctx, date)
	if len(entries) == 0 {
		ctx.Printf("No plan entries for %s.\n", date)
		return nil
	}

	loc := ctx.Location()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.StartTime.In(loc).Format(constants.TimeFormat) + "-" + e.EndTime.In(loc).Format(constants.TimeFormat),
			e.Title,
			e.Category,
			e.ID,
		})
	}
	ctx.Println(cli.HeaderStyle.Render("Plan for " + date))
	ctx.Println(cli.Table([]string{"Time", "Title", "Category", "ID"}, rows))
	printConflicts(ctx, validation.PlanConflicts(date, entries))
	return nil
}

type PlanDeleteCmd struct {
	ID string `arg:"" help:"Plan entry ID."`
}

func (c *PlanDeleteCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	if _, err := ctx.Repo.Plans.Get(rctx, c.ID); err != nil {
		return fmt.Errorf("plan entry %q: %w", c.ID, err)
	}
	if err := ctx.Report(ctx.Repo.Plans.Delete(rctx, c.ID)); err != nil {
		return err
	}
	ctx.Printf("Deleted plan entry %s\n", c.ID)
	return nil
}

func printConflicts(ctx *cli.Context, conflicts []validation.Conflict) {
	for _, conflict := range conflicts {
		ctx.Println(cli.WarningStyle.Render("Conflict: " + conflict.Description))
	}
}
