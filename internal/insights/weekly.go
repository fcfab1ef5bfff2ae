package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/utils"
)

// AdviceType names a canned suggestion.
type AdviceType string

const (
	AdviceSmallWins  AdviceType = "small_wins"
	AdviceBudget     AdviceType = "budget"
	AdviceMoodHabits AdviceType = "mood_habits"
	AdviceKeepGoing  AdviceType = "keep_going"
	AdviceLogMoods   AdviceType = "log_moods"
)

// Thresholds for the advice rules.
const (
	LowMoodThreshold      = 5.0
	LowHabitRateThreshold = 50.0
	HighHabitRate         = 80.0
	MoodLiftThreshold     = 1.0
	TopCategoryCount      = 3
	WindowDays            = 7
)

type Advice struct {
	Type    AdviceType `json:"type"`
	Message string     `json:"message"`
}

type CategoryTotal struct {
	Category string        `json:"category"`
	Total    models.Amount `json:"total"`
}

type StreakLeader struct {
	HabitID   string `json:"habitId"`
	HabitName string `json:"habitName"`
	Days      int    `json:"days"`
}

// Input is everything the generator reads.
type Input struct {
	Expenses []models.Expense
	Moods    []models.Mood
	Habits   []models.Habit
	Entries  []models.HabitEntry
}

// WeeklyInsight summarises the seven days ending today.
type WeeklyInsight struct {
	From string `json:"from"`
	To   string `json:"to"`

	MoodCount   int          `json:"moodCount"`
	AverageMood float64      `json:"averageMood"`
	BestDay     *models.Mood `json:"bestDay,omitempty"`
	WorstDay    *models.Mood `json:"worstDay,omitempty"`

	TotalExpense  models.Amount   `json:"totalExpense"`
	TotalIncome   models.Amount   `json:"totalIncome"`
	TopCategories []CategoryTotal `json:"topCategories"`

	HabitCompletionRate float64       `json:"habitCompletionRate"`
	LongestStreak       *StreakLeader `json:"longestStreak,omitempty"`

	// Average mood on days with at least one completed habit, and without.
	MoodWithHabits    float64 `json:"moodWithHabits"`
	MoodWithoutHabits float64 `json:"moodWithoutHabits"`
	daysWithHabits    int
	daysWithoutHabits int

	Advice []Advice `json:"advice"`
}

// Generate builds the insight for the window ending on today.
func Generate(in Input, today time.Time) WeeklyInsight {
	end := utils.CalendarDay(today)
	start := end.AddDate(0, 0, -(WindowDays - 1))

	window := make([]time.Time, 0, WindowDays)
	inWindow := map[string]bool{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		window = append(window, d)
		inWindow[utils.FormatDate(d)] = true
	}

	w := WeeklyInsight{
		From:          utils.FormatDate(start),
		To:            utils.FormatDate(end),
		TotalExpense:  models.NewAmount(0),
		TotalIncome:   models.NewAmount(0),
		TopCategories: []CategoryTotal{},
		Advice:        []Advice{},
	}

	w.summariseMoods(in.Moods, inWindow)
	w.summariseMoney(in.Expenses, inWindow)
	w.HabitCompletionRate = windowCompletionRate(in.Habits, in.Entries, window, inWindow)
	w.LongestStreak = streakLeader(in.Habits, in.Entries, today)
	w.correlate(in.Moods, in.Entries, inWindow)
	w.Advice = w.advise()
	return w
}

func (w *WeeklyInsight) summariseMoods(moods []models.Mood, inWindow map[string]bool) {
	sum := 0
	for _, m := range moods {
		if !inWindow[m.Date] {
			continue
		}
		m := m
		w.MoodCount++
		sum += m.Mood
		if w.BestDay == nil || m.Mood > w.BestDay.Mood || (m.Mood == w.BestDay.Mood && m.Date < w.BestDay.Date) {
			w.BestDay = &m
		}
		if w.WorstDay == nil || m.Mood < w.WorstDay.Mood || (m.Mood == w.WorstDay.Mood && m.Date < w.WorstDay.Date) {
			w.WorstDay = &m
		}
	}
	if w.MoodCount > 0 {
		w.AverageMood = round1(float64(sum) / float64(w.MoodCount))
	}
}

func (w *WeeklyInsight) summariseMoney(expenses []models.Expense, inWindow map[string]bool) {
	byCategory := map[string]models.Amount{}
	for _, e := range expenses {
		if !inWindow[e.Date] {
			continue
		}
		if e.Type == models.ExpenseTypeIncome {
			w.TotalIncome = w.TotalIncome.Add(e.Amount)
			continue
		}
		w.TotalExpense = w.TotalExpense.Add(e.Amount)
		total, ok := byCategory[e.Category]
		if !ok {
			total = models.NewAmount(0)
		}
		byCategory[e.Category] = total.Add(e.Amount)
	}

	for cat, total := range byCategory {
		w.TopCategories = append(w.TopCategories, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(w.TopCategories, func(i, j int) bool {
		a, b := w.TopCategories[i], w.TopCategories[j]
		if c := a.Total.Cmp(b.Total.Decimal); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	if len(w.TopCategories) > TopCategoryCount {
		w.TopCategories = w.TopCategories[:TopCategoryCount]
	}
}

// windowCompletionRate applies the weekly-rate rule to an arbitrary
// seven-day window instead of the ISO week.
func windowCompletionRate(habits []models.Habit, entries []models.HabitEntry, window []time.Time, inWindow map[string]bool) float64 {
	target, actual := 0, 0
	for _, h := range habits {
		switch h.Frequency.Normalize().Type {
		case models.FrequencySpecificDays:
			for _, d := range window {
				if IsDue(h, d) {
					target++
				}
			}
		default:
			target += WeeklyTarget(h)
		}

		days := map[string]bool{}
		for _, e := range entries {
			if e.HabitID == h.ID && e.Completed && inWindow[e.Date] {
				days[e.Date] = true
			}
		}
		actual += int(math.Min(7, float64(len(days))))
	}
	if target == 0 {
		return 0
	}
	return round1(math.Min(100, 100*float64(actual)/float64(target)))
}

func streakLeader(habits []models.Habit, entries []models.HabitEntry, today time.Time) *StreakLeader {
	var best *StreakLeader
	for _, h := range habits {
		n := CurrentStreak(h.ID, entries, today)
		if n == 0 {
			continue
		}
		if best == nil || n > best.Days {
			best = &StreakLeader{HabitID: h.ID, HabitName: h.Name, Days: n}
		}
	}
	return best
}

// correlate compares average mood on days with and without a completed
// habit. It is a naive split, not a statistical test.
func (w *WeeklyInsight) correlate(moods []models.Mood, entries []models.HabitEntry, inWindow map[string]bool) {
	active := map[string]bool{}
	for _, e := range entries {
		if e.Completed && inWindow[e.Date] {
			active[e.Date] = true
		}
	}

	withSum, withoutSum := 0, 0
	for _, m := range moods {
		if !inWindow[m.Date] {
			continue
		}
		if active[m.Date] {
			withSum += m.Mood
			w.daysWithHabits++
		} else {
			withoutSum += m.Mood
			w.daysWithoutHabits++
		}
	}
	if w.daysWithHabits > 0 {
		w.MoodWithHabits = round1(float64(withSum) / float64(w.daysWithHabits))
	}
	if w.daysWithoutHabits > 0 {
		w.MoodWithoutHabits = round1(float64(withoutSum) / float64(w.daysWithoutHabits))
	}
}

func (w *WeeklyInsight) advise() []Advice {
	advice := []Advice{}

	if w.MoodCount == 0 {
		advice = append(advice, Advice{
			Type:    AdviceLogMoods,
			Message: "No moods logged this week. A quick daily check-in makes these insights sharper.",
		})
	}

	if w.MoodCount > 0 && w.AverageMood < LowMoodThreshold && w.HabitCompletionRate < LowHabitRateThreshold {
		advice = append(advice, Advice{
			Type:    AdviceSmallWins,
			Message: fmt.Sprintf("Mood averaged %.1f and habits sat at %.0f%%. Pick one small habit and aim for small wins this week.", w.AverageMood, w.HabitCompletionRate),
		})
	}

	if w.TotalIncome.IsPositive() && w.TotalExpense.GreaterThan(w.TotalIncome.Decimal) {
		over := w.TotalExpense.Sub(w.TotalIncome.Decimal)
		advice = append(advice, Advice{
			Type:    AdviceBudget,
			Message: fmt.Sprintf("Spending ran %s over income. Consider a budget for your top category.", over.StringFixed(2)),
		})
	}

	if w.daysWithHabits > 0 && w.daysWithoutHabits > 0 && w.MoodWithHabits-w.MoodWithoutHabits >= MoodLiftThreshold {
		advice = append(advice, Advice{
			Type:    AdviceMoodHabits,
			Message: fmt.Sprintf("On days you completed a habit your mood averaged %.1f, versus %.1f on other days.", w.MoodWithHabits, w.MoodWithoutHabits),
		})
	}

	if w.HabitCompletionRate >= HighHabitRate {
		advice = append(advice, Advice{
			Type:    AdviceKeepGoing,
			Message: fmt.Sprintf("%.0f%% habit completion. Keep the momentum going.", w.HabitCompletionRate),
		})
	}

	return advice
}

// Lines renders the insight as plain text, one statement per line.
func (w WeeklyInsight) Lines() []string {
	lines := []string{fmt.Sprintf("Week of %s to %s", w.From, w.To)}

	if w.MoodCount > 0 {
		lines = append(lines, fmt.Sprintf("Average mood: %.1f over %d day(s)", w.AverageMood, w.MoodCount))
		lines = append(lines, fmt.Sprintf("Best day: %s (%d), worst day: %s (%d)",
			w.BestDay.Date, w.BestDay.Mood, w.WorstDay.Date, w.WorstDay.Mood))
	}

	lines = append(lines, fmt.Sprintf("Spent %s, earned %s", w.TotalExpense.StringFixed(2), w.TotalIncome.StringFixed(2)))
	if len(w.TopCategories) > 0 {
		parts := make([]string, 0, len(w.TopCategories))
		for _, c := range w.TopCategories {
			parts = append(parts, fmt.Sprintf("%s %s", c.Category, c.Total.StringFixed(2)))
		}
		lines = append(lines, "Top categories: "+strings.Join(parts, ", "))
	}

	lines = append(lines, fmt.Sprintf("Habit completion: %.0f%%", w.HabitCompletionRate))
	if w.LongestStreak != nil {
		lines = append(lines, fmt.Sprintf("Longest streak: %s, %d day(s)", w.LongestStreak.HabitName, w.LongestStreak.Days))
	}

	for _, a := range w.Advice {
		lines = append(lines, "• "+a.Message)
	}
	return lines
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
