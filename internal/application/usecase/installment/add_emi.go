package installment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddEMIInput represents the input for tracking a new EMI.
type AddEMIInput struct {
	UserID uuid.UUID
	Name   string
	Amount float64
	Tenure int
}

// AddEMIOutput represents the output of tracking a new EMI.
type AddEMIOutput struct {
	*finance.StateOutput
	EMI entity.EMI
}

// AddEMIUseCase starts tracking an EMI.
type AddEMIUseCase struct {
	store finance.StateStore
}

// NewAddEMIUseCase creates a new AddEMIUseCase instance.
func NewAddEMIUseCase(store finance.StateStore) *AddEMIUseCase {
	return &AddEMIUseCase{store: store}
}

// Execute performs the addition.
func (uc *AddEMIUseCase) Execute(ctx context.Context, input AddEMIInput) (*AddEMIOutput, error) {
	name, err := finance.ValidateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := finance.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.Tenure <= 0 {
		return nil, invalidTenure()
	}
	emi, err := entity.NewEMI(name, input.Amount, input.Tenure)
	if err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		state.EMIs = append(state.EMIs, *emi)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AddEMIOutput{StateOutput: finance.NewStateOutput(state, time.Now()), EMI: *emi}, nil
}
