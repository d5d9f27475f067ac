package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// EditIncomeInput represents the input for editing an income transaction.
// A zero Date keeps the recorded date.
type EditIncomeInput struct {
	UserID      uuid.UUID
	IncomeID    string
	Amount      float64
	Description string
	Source      string
	Date        time.Time
}

// EditIncomeUseCase edits an income transaction and reallocates from the new total.
type EditIncomeUseCase struct {
	store StateStore
}

// NewEditIncomeUseCase creates a new EditIncomeUseCase instance.
func NewEditIncomeUseCase(store StateStore) *EditIncomeUseCase {
	return &EditIncomeUseCase{store: store}
}

// Execute performs the edit.
func (uc *EditIncomeUseCase) Execute(ctx context.Context, input EditIncomeInput) (*StateOutput, error) {
	if err := ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if !budget.EditIncome(state, input.IncomeID, input.Amount,
			strings.TrimSpace(input.Description), strings.TrimSpace(input.Source), input.Date) {
			return transactionNotFound(input.IncomeID)
		}
		return ensureFinite(state)
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
