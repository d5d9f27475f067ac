package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// EditEMIInput represents the input for editing an EMI.
type EditEMIInput struct {
	UserID      uuid.UUID
	EMIID       string
	Name        string
	Amount      float64
	TenureLeft  int
	TotalTenure int
}

// EditEMIUseCase replaces the editable fields of an EMI.
type EditEMIUseCase struct {
	store finance.StateStore
}

// NewEditEMIUseCase creates a new EditEMIUseCase instance.
func NewEditEMIUseCase(store finance.StateStore) *EditEMIUseCase {
	return &EditEMIUseCase{store: store}
}

// Execute performs the edit.
func (uc *EditEMIUseCase) Execute(ctx context.Context, input EditEMIInput) (*finance.StateOutput, error) {
	name, err := finance.ValidateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := finance.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.TenureLeft < 0 || input.TotalTenure <= 0 {
		return nil, invalidTenure()
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.EditEMI(state, input.EMIID, name, input.Amount, input.TenureLeft, input.TotalTenure) {
			return installmentNotFound("EMI", input.EMIID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finance.NewStateOutput(state, time.Now()), nil
}
