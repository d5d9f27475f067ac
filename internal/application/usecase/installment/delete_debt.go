package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DeleteDebtInput represents the input for deleting a debt.
type DeleteDebtInput struct {
	UserID uuid.UUID
	DebtID string
}

// DeleteDebtUseCase stops tracking a debt. Payments already booked stay.
type DeleteDebtUseCase struct {
	store finance.StateStore
}

// NewDeleteDebtUseCase creates a new DeleteDebtUseCase instance.
func NewDeleteDebtUseCase(store finance.StateStore) *DeleteDebtUseCase {
	return &DeleteDebtUseCase{store: store}
}

// Execute performs the deletion.
func (uc *DeleteDebtUseCase) Execute(ctx context.Context, input DeleteDebtInput) (*finance.StateOutput, error) {
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.DeleteDebt(state, input.DebtID) {
			return installmentNotFound("debt", input.DebtID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finance.NewStateOutput(state, time.Now()), nil
}
