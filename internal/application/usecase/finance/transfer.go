package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// TransferInput represents the input for moving allocation between categories.
type TransferInput struct {
	UserID         uuid.UUID
	FromCategoryID string
	ToCategoryID   string
	Amount         float64
}

// TransferUseCase moves allocation from one category to another.
type TransferUseCase struct {
	store StateStore
}

// NewTransferUseCase creates a new TransferUseCase instance.
func NewTransferUseCase(store StateStore) *TransferUseCase {
	return &TransferUseCase{store: store}
}

// Execute performs the transfer.
func (uc *TransferUseCase) Execute(ctx context.Context, input TransferInput) (*StateOutput, error) {
	if err := ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.FromCategoryID == input.ToCategoryID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeSameCategory,
			"cannot transfer within the same category",
			domainerror.ErrSameCategory,
		)
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		from, err := findCategory(state, input.FromCategoryID)
		if err != nil {
			return err
		}
		if _, err := findCategory(state, input.ToCategoryID); err != nil {
			return err
		}
		if input.Amount > from.TotalAllocated {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeAllocationExceeded,
				"amount exceeds the source category allocation",
				domainerror.ErrAllocationExceeded,
			)
		}
		budget.Transfer(state, input.FromCategoryID, input.ToCategoryID, input.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
