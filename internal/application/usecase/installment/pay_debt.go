package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// PayDebtInput represents the input for paying one monthly debt payment.
type PayDebtInput struct {
	UserID uuid.UUID
	DebtID string
}

// PayDebtUseCase records one monthly payment and books it as a needs expense.
type PayDebtUseCase struct {
	store finance.StateStore
	now   func() time.Time
}

// NewPayDebtUseCase creates a new PayDebtUseCase instance.
func NewPayDebtUseCase(store finance.StateStore) *PayDebtUseCase {
	return &PayDebtUseCase{store: store, now: time.Now}
}

// Execute performs the payment.
func (uc *PayDebtUseCase) Execute(ctx context.Context, input PayDebtInput) (*finance.StateOutput, error) {
	now := uc.now()
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		debt := budget.FindDebt(state, input.DebtID)
		if debt == nil {
			return installmentNotFound("debt", input.DebtID)
		}
		if !debt.IsActive {
			return installmentInactive("debt", input.DebtID)
		}
		budget.PayDebt(state, input.DebtID, now.UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finance.NewStateOutput(state, now), nil
}
