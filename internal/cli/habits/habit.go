package habits

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/insights"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

const defaultColor = "#8b5cf6"

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Rename a habit or change its schedule."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and all of its entries."`
	Toggle HabitToggleCmd `cmd:"" help:"Flip a habit's completion for a day."`
	Streak HabitStreakCmd `cmd:"" help:"Show current and longest streaks."`
	Week   HabitWeekCmd   `cmd:"" help:"Show this week's completion grid."`
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Color string `help:"Display color." default:"#8b5cf6"`
	Days  string `help:"Only on these weekdays, e.g. mon,wed,fri."`
	Times int    `help:"Target completions per week (1-7), on any day."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	freq, err := cli.ParseFrequency(c.Days, c.Times)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	if _, err := ctx.Repo.Habits.FindByName(rctx, name); err == nil {
		return fmt.Errorf("habit with name %q already exists", name)
	}

	color := c.Color
	if color == "" {
		color = defaultColor
	}
	habit := models.Habit{
		ID:        cli.NewID(),
		Name:      name,
		Color:     color,
		CreatedAt: ctx.Clock(),
		Frequency: freq,
	}

	saved, err := ctx.Repo.Habits.Save(rctx, habit)
	if err := ctx.Report(err); err != nil {
		return err
	}
	ctx.Printf("Added habit: %s (%s)\n", saved.Name, saved.Frequency)
	return nil
}

type HabitEditCmd struct {
	Name   string `arg:"" help:"Current habit name."`
	Rename string `help:"New name."`
	Color  string `help:"New display color."`
	Days   string `help:"Switch to these weekdays, e.g. mon,wed,fri."`
	Times  int    `help:"Switch to a weekly target (1-7)."`
	Daily  bool   `help:"Switch to every day."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	habit, err := lookup(ctx, c.Name)
	if err != nil {
		return err
	}

	if rename := strings.TrimSpace(c.Rename); rename != "" && rename != habit.Name {
		if _, err := ctx.Repo.Habits.FindByName(rctx, rename); err == nil {
			return fmt.Errorf("habit with name %q already exists", rename)
		}
		habit.Name = rename
	}
	if c.Color != "" {
		habit.Color = c.Color
	}
	switch {
	case c.Daily:
		habit.Frequency = models.Frequency{Type: models.FrequencyDaily}
	case c.Days != "" || c.Times > 0:
		freq, err := cli.ParseFrequency(c.Days, c.Times)
		if err != nil {
			return err
		}
		habit.Frequency = freq
	}

	saved, err := ctx.Repo.Habits.Save(rctx, habit)
	if err := ctx.Report(err); err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s (%s)\n", saved.Name, saved.Frequency)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	habits := ctx.Repo.Habits.GetAll(rctx)
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	entries := ctx.Repo.HabitEntries.GetAll(rctx)
	today := ctx.Today()
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			h.Name,
			h.Frequency.String(),
			fmt.Sprintf("%d", insights.CurrentStreak(h.ID, entries, today)),
			cli.Check(isDone(entries, h.ID, ctx.TodayString()), insights.IsDue(h, today)),
		})
	}
	ctx.Println(cli.Table([]string{"Habit", "Schedule", "Streak", "Today"}, rows))
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	habit, err := lookup(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Report(ctx.Repo.Habits.Delete(rctx, habit.ID)); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitToggleCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	habit, err := lookup(ctx, c.Name)
	if err != nil {
		return err
	}

	entry, err := ctx.Repo.HabitEntries.Toggle(rctx, habit.ID, date)
	if err := ctx.Report(err); err != nil {
		return err
	}
	if entry.Completed {
		ctx.Printf("Marked habit %q for %s\n", habit.Name, date)
	} else {
		ctx.Printf("Unmarked habit %q for %s\n", habit.Name, date)
	}
	return nil
}

type HabitStreakCmd struct {
	Name string `arg:"" optional:"" help:"Habit name (default: all habits)."`
}

func (c *HabitStreakCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	var habits []models.Habit
	if c.Name != "" {
		habit, err := lookup(ctx, c.Name)
		if err != nil {
			return err
		}
		habits = []models.Habit{habit}
	} else {
		habits = ctx.Repo.Habits.GetAll(rctx)
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	entries := ctx.Repo.HabitEntries.GetAll(rctx)
	today := ctx.Today()
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			h.Name,
			fmt.Sprintf("%d", insights.CurrentStreak(h.ID, entries, today)),
			fmt.Sprintf("%d", insights.LongestStreak(h.ID, entries)),
		})
	}
	ctx.Println(cli.Table([]string{"Habit", "Current", "Longest"}, rows))
	return nil
}

type HabitWeekCmd struct {
	Date string `help:"Any date in the week to show (default: today)."`
}

func (c *HabitWeekCmd) Run(ctx *cli.Context) error {
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

	habits := ctx.Repo.Habits.GetAll(rctx)
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	entries := ctx.Repo.HabitEntries.GetAll(rctx)

	rows := insights.WeekTable(habits, entries, day)
	headers := []string{"Habit", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun", "Done"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Habit.Name}
		for _, cell := range r.Days {
			line = append(line, cli.Check(cell.Completed, cell.Due))
		}
		line = append(line, fmt.Sprintf("%d/%d", r.Completed, r.Target))
		table = append(table, line)
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Week of %s", rows[0].Days[0].Date)))
	ctx.Println(cli.Table(headers, table))
	ctx.Printf("Completion rate: %.0f%%\n", insights.WeeklyCompletionRate(habits, entries, day))
	return nil
}

// lookup finds a habit by exact name.
func lookup(ctx *cli.Context, name string) (models.Habit, error) {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	habit, err := ctx.Repo.Habits.FindByName(rctx, strings.TrimSpace(name))
	if stderrors.Is(err, errors.ErrNotFound) {
		return habit, fmt.Errorf("habit %q not found: %w", name, err)
	}
	return habit, err
}

func isDone(entries []models.HabitEntry, habitID, date string) bool {
	key := models.HabitEntryID(habitID, date)
	for _, e := range entries {
		if e.Key() == key {
			return e.Completed
		}
	}
	return false
}
