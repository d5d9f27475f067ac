package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddExpenseInput represents the input for recording an expense.
type AddExpenseInput struct {
	UserID        uuid.UUID
	SubcategoryID string
	Amount        float64
	Description   string
	Date          time.Time
}

// AddExpenseOutput represents the output of recording an expense.
type AddExpenseOutput struct {
	*StateOutput
	Expense entity.Expense
}

// AddExpenseUseCase books an expense against a subcategory.
type AddExpenseUseCase struct {
	store StateStore
}

// NewAddExpenseUseCase creates a new AddExpenseUseCase instance.
func NewAddExpenseUseCase(store StateStore) *AddExpenseUseCase {
	return &AddExpenseUseCase{store: store}
}

// Execute performs the booking.
func (uc *AddExpenseUseCase) Execute(ctx context.Context, input AddExpenseInput) (*AddExpenseOutput, error) {
	if err := ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	expense, err := entity.NewExpense(input.Amount, input.Description, input.Date, input.SubcategoryID)
	if err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.AddExpense(state, *expense) {
			return subcategoryNotFound(input.SubcategoryID)
		}
		return ensureFinite(state)
	})
	if err != nil {
		return nil, err
	}
	return &AddExpenseOutput{StateOutput: NewStateOutput(state, time.Now()), Expense: *expense}, nil
}
