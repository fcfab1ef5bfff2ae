package moods

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/models"
)

type MoodCmd struct {
	Set    MoodSetCmd    `cmd:"" help:"Record the mood for a day (replaces any earlier entry)."`
	List   MoodListCmd   `cmd:"" help:"List recorded moods."`
	Delete MoodDeleteCmd `cmd:"" help:"Delete the mood for a day."`
}

type MoodSetCmd struct {
	Score int    `arg:"" help:"Mood score from 1 (worst) to 10 (best)."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Note  string `help:"Optional note."`
}

func (c *MoodSetCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	saved, err := ctx.Repo.Moods.Save(rctx, models.Mood{Date: date, Mood: c.Score, Note: c.Note})
	if err := ctx.Report(err); err != nil {
		return err
	}
	ctx.Printf("Mood for %s set to %d/%d %s\n", saved.Date, saved.Mood, models.MaxMoodScore, bar(saved.Mood))
	return nil
}

type MoodListCmd struct {
	Limit int `help:"Show at most this many days (0 = all)." default:"14"`
}

func (c *MoodListCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	moods := ctx.Repo.Moods.Sorted(rctx)
	if len(moods) == 0 {
		ctx.Println("No moods recorded.")
		return nil
	}
	if c.Limit > 0 && len(moods) > c.Limit {
		moods = moods[:c.Limit]
	}

	rows := make([][]string, 0, len(moods))
	for _, m := range moods {
		rows = append(rows, []string{m.Date, fmt.Sprintf("%2d %s", m.Mood, bar(m.Mood)), m.Note})
	}
	ctx.Println(cli.Table([]string{"Date", "Mood", "Note"}, rows))
	return nil
}

type MoodDeleteCmd struct {
	Date string `arg:"" help:"Date in YYYY-MM-DD format."`
}

func (c *MoodDeleteCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	if _, err := ctx.Repo.Moods.Get(rctx, date); err != nil {
		return fmt.Errorf("mood for %s: %w", date, err)
	}
	if err := ctx.Report(ctx.Repo.Moods.Delete(rctx, date)); err != nil {
		return err
	}
	ctx.Printf("Deleted mood for %s\n", date)
	return nil
}

func bar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > models.MaxMoodScore {
		score = models.MaxMoodScore
	}
	return strings.Repeat("█", score) + strings.Repeat("░", models.MaxMoodScore-score)
}
