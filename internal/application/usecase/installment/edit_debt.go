package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// EditDebtInput represents the input for editing a debt.
type EditDebtInput struct {
	UserID         uuid.UUID
	DebtID         string
	Name           string
	PendingAmount  float64
	MonthlyPayment float64
	ReminderDate   *time.Time
}

// EditDebtUseCase replaces the editable fields of a debt.
type EditDebtUseCase struct {
	store finance.StateStore
}

// NewEditDebtUseCase creates a new EditDebtUseCase instance.
func NewEditDebtUseCase(store finance.StateStore) *EditDebtUseCase {
	return &EditDebtUseCase{store: store}
}

// Execute performs the edit. A pending amount of zero marks the debt cleared.
func (uc *EditDebtUseCase) Execute(ctx context.Context, input EditDebtInput) (*finance.StateOutput, error) {
	name, err := finance.ValidateName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.PendingAmount < 0 {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAmount,
			"pending amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}
	if err := finance.ValidateAmount(input.MonthlyPayment); err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.EditDebt(state, input.DebtID, name, input.PendingAmount, input.MonthlyPayment, input.ReminderDate) {
			return installmentNotFound("debt", input.DebtID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finance.NewStateOutput(state, time.Now()), nil
}
