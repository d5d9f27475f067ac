package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddIncomeInput represents the input for recording income.
type AddIncomeInput struct {
	UserID      uuid.UUID
	Amount      float64
	Description string
	Source      string
	Date        time.Time
}

// AddIncomeOutput represents the output of recording income.
type AddIncomeOutput struct {
	*StateOutput
	Income entity.IncomeTransaction
}

// AddIncomeUseCase records an income transaction and reallocates the budget.
type AddIncomeUseCase struct {
	store StateStore
}

// NewAddIncomeUseCase creates a new AddIncomeUseCase instance.
func NewAddIncomeUseCase(store StateStore) *AddIncomeUseCase {
	return &AddIncomeUseCase{store: store}
}

// Execute performs the income addition.
func (uc *AddIncomeUseCase) Execute(ctx context.Context, input AddIncomeInput) (*AddIncomeOutput, error) {
	if err := ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	income, err := entity.NewIncomeTransaction(input.Amount, strings.TrimSpace(input.Description), strings.TrimSpace(input.Source), input.Date)
	if err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		budget.AddIncome(state, *income)
		return ensureFinite(state)
	})
	if err != nil {
		return nil, err
	}
	return &AddIncomeOutput{StateOutput: NewStateOutput(state, time.Now()), Income: *income}, nil
}
