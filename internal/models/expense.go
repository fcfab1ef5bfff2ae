package models

type ExpenseType string

const (
	ExpenseTypeExpense ExpenseType = "expense"
	ExpenseTypeIncome  ExpenseType = "income"
)

// Categories offered by the expense form. Free-form categories are accepted
// too; this list only drives suggestions and the insight summary labels.
var ExpenseCategories = []string{
	"food",
	"transport",
	"shopping",
	"entertainment",
	"bills",
	"health",
	"education",
	"salary",
	"other",
}

type Expense struct {
	ID       string      `json:"id" validate:"required"`
	Date     string      `json:"date" validate:"required,datetime=2006-01-02"`
	Amount   Amount      `json:"amount" validate:"gt=0"`
	Category string      `json:"category" validate:"required"`
	Note     string      `json:"note,omitempty"`
	Type     ExpenseType `json:"type" validate:"oneof=expense income"`
	UserID   string      `json:"user_id,omitempty"`
}

func (e Expense) Key() string { return e.ID }

func (e Expense) WithOwner(owner string) Expense {
	e.UserID = owner
	return e
}

func (e Expense) Normalize() Expense {
	if e.Type == "" {
		e.Type = ExpenseTypeExpense
	}
	return e
}
