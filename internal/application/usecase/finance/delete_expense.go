package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DeleteExpenseInput represents the input for deleting an expense.
type DeleteExpenseInput struct {
	UserID        uuid.UUID
	TransactionID string
}

// DeleteExpenseUseCase removes an expense from its subcategory and the log.
type DeleteExpenseUseCase struct {
	store StateStore
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(store StateStore) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{store: store}
}

// Execute performs the deletion.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) (*StateOutput, error) {
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.DeleteExpense(state, input.TransactionID) {
			return transactionNotFound(input.TransactionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
