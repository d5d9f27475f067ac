package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DeleteEMIInput represents the input for deleting an EMI.
type DeleteEMIInput struct {
	UserID uuid.UUID
	EMIID  string
}

// DeleteEMIUseCase stops tracking an EMI. Payments already booked stay.
type DeleteEMIUseCase struct {
	store finance.StateStore
}

// NewDeleteEMIUseCase creates a new DeleteEMIUseCase instance.
func NewDeleteEMIUseCase(store finance.StateStore) *DeleteEMIUseCase {
	return &DeleteEMIUseCase{store: store}
}

// Execute performs the deletion.
func (uc *DeleteEMIUseCase) Execute(ctx context.Context, input DeleteEMIInput) (*finance.StateOutput, error) {
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.DeleteEMI(state, input.EMIID) {
			return installmentNotFound("EMI", input.EMIID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finance.NewStateOutput(state, time.Now()), nil
}
