package expenses

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/models"
)

type ExpenseCmd struct {
	Add    ExpenseAddCmd    `cmd:"" help:"Record an expense or income."`
	List   ExpenseListCmd   `cmd:"" help:"List expenses."`
	Delete ExpenseDeleteCmd `cmd:"" help:"Delete an expense."`
}

type ExpenseAddCmd struct {
	Amount   string `arg:"" help:"Amount, e.g. 12.50."`
	Category string `help:"Category (food, transport, shopping, entertainment, bills, health, education, salary, other)." default:"other"`
	Note     string `help:"Optional note."`
	Date     string `help:"Date in YYYY-MM-DD format (default: today)."`
	Income   bool   `help:"Record income instead of an expense."`
}

func (c *ExpenseAddCmd) Run(ctx *cli.Context) error {
	amount, err := models.ParseAmount(c.Amount)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	expense := models.Expense{
		ID:       cli.NewID(),
		Date:     date,
		Amount:   amount,
		Category: strings.ToLower(strings.TrimSpace(c.Category)),
		Note:     c.Note,
		Type:     models.ExpenseTypeExpense,
	}
	if c.Income {
		expense.Type = models.ExpenseTypeIncome
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	saved, err := ctx.Repo.Expenses.Save(rctx, expense)
	if err := ctx.Report(err); err != nil {
		return err
	}

	ctx.Printf("Added %s %s (%s) on %s [%s]\n", saved.Type, saved.Amount.StringFixed(2), saved.Category, saved.Date, saved.ID)
	return nil
}

type ExpenseListCmd struct {
	From     string `help:"First date to include (YYYY-MM-DD)."`
	To       string `help:"Last date to include (YYYY-MM-DD)."`
	Category string `help:"Only show this category."`
}

func (c *ExpenseListCmd) Run(ctx *cli.Context) error {
	for _, d := range []string{c.From, c.To} {
		if d != "" {
			if _, err := ctx.ResolveDate(d); err != nil {
				return err
			}
		}
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()

	to := c.To
	if to == "" {
		to = "9999-12-31"
	}

	var list []models.Expense
	for _, e := range ctx.Repo.Expenses.Between(rctx, c.From, to) {
		if c.Category != "" && !strings.EqualFold(e.Category, c.Category) {
			continue
		}
		list = append(list, e)
	}

	if len(list) == 0 {
		ctx.Println("No expenses found.")
		return nil
	}

	var spent, earned models.Amount
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		sign := "-"
		if e.Type == models.ExpenseTypeIncome {
			sign = "+"
			earned = earned.Add(e.Amount)
		} else {
			spent = spent.Add(e.Amount)
		}
		rows = append(rows, []string{e.Date, sign + e.Amount.StringFixed(2), e.Category, e.Note, e.ID})
	}

	ctx.Println(cli.Table([]string{"Date", "Amount", "Category", "Note", "ID"}, rows))
	ctx.Printf("Spent: %s  Earned: %s  Net: %s\n",
		spent.StringFixed(2), earned.StringFixed(2), earned.Sub(spent.Decimal).StringFixed(2))
	return nil
}

type ExpenseDeleteCmd struct {
	ID string `arg:"" help:"Expense ID."`
}

func (c *ExpenseDeleteCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	if _, err := ctx.Repo.Expenses.Get(rctx, c.ID); err != nil {
		return fmt.Errorf("expense %q: %w", c.ID, err)
	}
	if err := ctx.Report(ctx.Repo.Expenses.Delete(rctx, c.ID)); err != nil {
		return err
	}
	ctx.Printf("Deleted expense %s\n", c.ID)
	return nil
}
