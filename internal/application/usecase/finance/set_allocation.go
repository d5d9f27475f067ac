package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// SetAllocationInput represents the input for pinning a subcategory's amount.
type SetAllocationInput struct {
	UserID        uuid.UUID
	CategoryID    string
	SubcategoryID string
	Amount        float64
}

// SetAllocationUseCase sets one subcategory's amount and redistributes the
// remainder among its siblings.
type SetAllocationUseCase struct {
	store StateStore
}

// NewSetAllocationUseCase creates a new SetAllocationUseCase instance.
func NewSetAllocationUseCase(store StateStore) *SetAllocationUseCase {
	return &SetAllocationUseCase{store: store}
}

// Execute performs the redistribution.
func (uc *SetAllocationUseCase) Execute(ctx context.Context, input SetAllocationInput) (*StateOutput, error) {
	if input.Amount < 0 {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAmount,
			"amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		cat, err := findCategory(state, input.CategoryID)
		if err != nil {
			return err
		}
		if cat.SubcategoryIndex(input.SubcategoryID) < 0 {
			return subcategoryNotFound(input.SubcategoryID)
		}
		switch {
		case cat.TotalAllocated == 0:
			return domainerror.NewBudgetError(
				domainerror.ErrCodeNoAllocation,
				"category has no allocation to redistribute",
				domainerror.ErrNoAllocation,
			)
		case len(cat.Subcategories) < 2:
			return domainerror.NewBudgetError(
				domainerror.ErrCodeSoleSubcategory,
				"the only subcategory always holds the full allocation",
				domainerror.ErrSoleSubcategory,
			)
		case input.Amount > cat.TotalAllocated:
			return domainerror.NewBudgetError(
				domainerror.ErrCodeAllocationExceeded,
				"amount exceeds category allocation",
				domainerror.ErrAllocationExceeded,
			)
		}
		budget.SetSubcategoryAllocation(cat, input.SubcategoryID, input.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
