package records

import (
	"context"
	"sort"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/validation"
)

type ExpenseStore struct {
	*Store[models.Expense]
}

func NewExpenseStore(opts Options) *ExpenseStore {
	return &ExpenseStore{
		Store: NewStore[models.Expense](opts, constants.KindExpense, constants.KeyExpenses, constants.TableExpenses,
			func(e models.Expense) error { return validation.Record("expense", e) }),
	}
}

// Between returns expenses dated in [from, to], newest first. Dates are
// YYYY-MM-DD so string order is calendar order.
func (s *ExpenseStore) Between(ctx context.Context, from, to string) []models.Expense {
	var out []models.Expense
	for _, e := range s.GetAll(ctx) {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
