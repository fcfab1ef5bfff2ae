package habits

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/julianstephens/lifelog/internal/cli/clitest"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
)

func addHabit(t *testing.T, env *clitest.Env, cmd HabitAddCmd) models.Habit {
	t.Helper()
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("HabitAddCmd.Run(%q) failed: %v", cmd.Name, err)
	}
	h, err := env.Ctx.Repo.Habits.FindByName(t.Context(), cmd.Name)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	env := clitest.New(t)

	h := addHabit(t, env, HabitAddCmd{Name: "Read", Days: "mon,wed"})
	if h.Frequency.Type != models.FrequencySpecificDays || len(h.Frequency.Days) != 2 {
		t.Errorf("unexpected frequency %+v", h.Frequency)
	}
	if h.Color != defaultColor {
		t.Errorf("Color = %q, want default", h.Color)
	}
	if !env.Mirror.Has(constants.TableHabits, clitest.Owner, h.ID) {
		t.Error("habit not mirrored")
	}

	if err := (&HabitAddCmd{Name: "Read"}).Run(env.Ctx); err == nil {
		t.Error("duplicate habit name accepted")
	}
	if err := (&HabitAddCmd{Name: "Run", Days: "someday"}).Run(env.Ctx); err == nil {
		t.Error("bad weekday accepted")
	}
	if err := (&HabitAddCmd{Name: "   "}).Run(env.Ctx); !errors.IsValidation(err) {
		t.Errorf("blank name = %v, want validation error", err)
	}
}

func TestHabitEditCmd(t *testing.T) {
	env := clitest.New(t)
	h := addHabit(t, env, HabitAddCmd{Name: "Read"})
	addHabit(t, env, HabitAddCmd{Name: "Run"})

	if err := (&HabitEditCmd{Name: "Read", Rename: "Run"}).Run(env.Ctx); err == nil {
		t.Error("rename onto an existing habit accepted")
	}

	if err := (&HabitEditCmd{Name: "Read", Rename: "Read more", Times: 3}).Run(env.Ctx); err != nil {
		t.Fatalf("HabitEditCmd.Run() failed: %v", err)
	}
	got, err := env.Ctx.Repo.Habits.Get(t.Context(), h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Read more" || got.Frequency.Type != models.FrequencyTimesPerWeek || got.Frequency.TimesPerWeek != 3 {
		t.Errorf("unexpected habit after edit %+v", got)
	}

	if err := (&HabitEditCmd{Name: "Read more", Daily: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = env.Ctx.Repo.Habits.Get(t.Context(), h.ID)
	if got.Frequency.Type != models.FrequencyDaily {
		t.Errorf("Frequency = %+v, want daily", got.Frequency)
	}
}

func TestHabitToggleCmd(t *testing.T) {
	env := clitest.New(t)
	h := addHabit(t, env, HabitAddCmd{Name: "Read"})

	toggle := &HabitToggleCmd{Name: "Read", Date: "2024-01-04"}
	if err := toggle.Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	entry, err := env.Ctx.Repo.HabitEntries.Get(t.Context(), models.HabitEntryID(h.ID, "2024-01-04"))
	if err != nil || !entry.Completed {
		t.Fatalf("entry after first toggle = %+v, %v", entry, err)
	}

	if err := toggle.Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	entry, err = env.Ctx.Repo.HabitEntries.Get(t.Context(), models.HabitEntryID(h.ID, "2024-01-04"))
	if err != nil || entry.Completed {
		t.Fatalf("entry after second toggle = %+v, %v", entry, err)
	}
	if !strings.Contains(env.Out.String(), `Unmarked habit "Read" for 2024-01-04`) {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}

	if err := (&HabitToggleCmd{Name: "Nope"}).Run(env.Ctx); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("toggle unknown habit = %v, want ErrNotFound", err)
	}
}

func TestHabitDeleteCmdCascades(t *testing.T) {
	env := clitest.New(t)
	h := addHabit(t, env, HabitAddCmd{Name: "Read"})
	for _, d := range []string{"2024-01-03", "2024-01-04"} {
		if err := (&HabitToggleCmd{Name: "Read", Date: d}).Run(env.Ctx); err != nil {
			t.Fatal(err)
		}
	}

	if err := (&HabitDeleteCmd{Name: "Read"}).Run(env.Ctx); err != nil {
		t.Fatalf("HabitDeleteCmd.Run() failed: %v", err)
	}
	if n := len(env.Ctx.Repo.HabitEntries.ForHabit(t.Context(), h.ID)); n != 0 {
		t.Errorf("%d entries left after habit delete", n)
	}
	if env.Mirror.Has(constants.TableHabitEntries, clitest.Owner, models.HabitEntryID(h.ID, "2024-01-03")) {
		t.Error("entry still on the mirror")
	}
}

func TestHabitStreakCmd(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, HabitAddCmd{Name: "Read"})
	// Today is 2024-01-05; four days ending yesterday.
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
		if err := (&HabitToggleCmd{Name: "Read", Date: d}).Run(env.Ctx); err != nil {
			t.Fatal(err)
		}
	}
	env.Out.Reset()

	if err := (&HabitStreakCmd{Name: "Read"}).Run(env.Ctx); err != nil {
		t.Fatalf("HabitStreakCmd.Run() failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "Read") || !strings.Contains(out, " 4 ") {
		t.Errorf("streak of 4 not shown:\n%s", out)
	}
}

func TestHabitWeekCmd(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, HabitAddCmd{Name: "Read", Days: "mon,wed,fri"})
	for _, d := range []string{"2024-01-01", "2024-01-03"} {
		if err := (&HabitToggleCmd{Name: "Read", Date: d}).Run(env.Ctx); err != nil {
			t.Fatal(err)
		}
	}
	env.Out.Reset()

	if err := (&HabitWeekCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("HabitWeekCmd.Run() failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "Week of 2024-01-01") {
		t.Errorf("week header missing:\n%s", out)
	}
	if !strings.Contains(out, "2/3") {
		t.Errorf("completion count missing:\n%s", out)
	}
	if !strings.Contains(out, "Completion rate: 67%") {
		t.Errorf("completion rate missing:\n%s", out)
	}
}

func TestHabitListEmpty(t *testing.T) {
	env := clitest.New(t)
	if err := (&HabitListCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), "No habits found.") {
		t.Errorf("unexpected output: %s", env.Out.String())
	}
}
