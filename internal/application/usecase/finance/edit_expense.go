package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// EditExpenseInput represents the input for editing an expense.
type EditExpenseInput struct {
	UserID        uuid.UUID
	TransactionID string
	Amount        float64
	Description   string
}

// EditExpenseUseCase changes an expense and moves its subcategory's spend.
type EditExpenseUseCase struct {
	store StateStore
}

// NewEditExpenseUseCase creates a new EditExpenseUseCase instance.
func NewEditExpenseUseCase(store StateStore) *EditExpenseUseCase {
	return &EditExpenseUseCase{store: store}
}

// Execute performs the edit.
func (uc *EditExpenseUseCase) Execute(ctx context.Context, input EditExpenseInput) (*StateOutput, error) {
	if err := ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.EditExpense(state, input.TransactionID, input.Amount, strings.TrimSpace(input.Description)) {
			return transactionNotFound(input.TransactionID)
		}
		return ensureFinite(state)
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
