package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddDebtInput represents the input for tracking a new debt.
type AddDebtInput struct {
	UserID         uuid.UUID
	Name           string
	PendingAmount  float64
	MonthlyPayment float64
	ReminderDate   *time.Time
}

// AddDebtOutput represents the output of tracking a new debt.
type AddDebtOutput struct {
	*finance.StateOutput
	Debt entity.Debt
}

// AddDebtUseCase starts tracking a debt.
type AddDebtUseCase struct {
	store finance.StateStore
}

// NewAddDebtUseCase creates a new AddDebtUseCase instance.
func NewAddDebtUseCase(store finance.StateStore) *AddDebtUseCase {
	return &AddDebtUseCase{store: store}
}

// Execute performs the addition.
func (uc *AddDebtUseCase) Execute(ctx context.Context, input AddDebtInput) (*AddDebtOutput, error) {
	name, err := finance.ValidateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := finance.ValidateAmount(input.PendingAmount); err != nil {
		return nil, err
	}
	if err := finance.ValidateAmount(input.MonthlyPayment); err != nil {
		return nil, err
	}
	debt, err := entity.NewDebt(name, input.PendingAmount, input.MonthlyPayment, input.ReminderDate)
	if err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		state.Debts = append(state.Debts, *debt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AddDebtOutput{StateOutput: finance.NewStateOutput(state, time.Now()), Debt: *debt}, nil
}
