package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DeleteIncomeInput represents the input for deleting an income transaction.
type DeleteIncomeInput struct {
	UserID   uuid.UUID
	IncomeID string
}

// DeleteIncomeUseCase removes an income transaction and reallocates.
type DeleteIncomeUseCase struct {
	store StateStore
}

// NewDeleteIncomeUseCase creates a new DeleteIncomeUseCase instance.
func NewDeleteIncomeUseCase(store StateStore) *DeleteIncomeUseCase {
	return &DeleteIncomeUseCase{store: store}
}

// Execute performs the deletion.
func (uc *DeleteIncomeUseCase) Execute(ctx context.Context, input DeleteIncomeInput) (*StateOutput, error) {
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.DeleteIncome(state, input.IncomeID) {
			return transactionNotFound(input.IncomeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
