package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// PayEMIInput represents the input for paying one EMI installment.
type PayEMIInput struct {
	UserID uuid.UUID
	EMIID  string
}

// PayEMIUseCase records one installment and books it as a needs expense.
type PayEMIUseCase struct {
	store finance.StateStore
	now   func() time.Time
}

// NewPayEMIUseCase creates a new PayEMIUseCase instance.
func NewPayEMIUseCase(store finance.StateStore) *PayEMIUseCase {
	return &PayEMIUseCase{store: store, now: time.Now}
}

// Execute performs the payment.
func (uc *PayEMIUseCase) Execute(ctx context.Context, input PayEMIInput) (*finance.StateOutput, error) {
	now := uc.now()
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		emi := budget.FindEMI(state, input.EMIID)
		if emi == nil {
			return installmentNotFound("EMI", input.EMIID)
		}
		if !emi.IsActive {
			return installmentInactive("EMI", input.EMIID)
		}
		budget.PayEMI(state, input.EMIID, now.UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finance.NewStateOutput(state, now), nil
}
