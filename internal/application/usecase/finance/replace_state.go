package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// ReplaceStateInput represents the input for storing a whole finance document.
type ReplaceStateInput struct {
	UserID uuid.UUID
	State  *entity.FinanceState
}

// ReplaceStateUseCase stores a client-supplied document wholesale. Unknown
// category ids are rejected and drifted subcategory percentages are
// renormalized; everything else is stored as received.
type ReplaceStateUseCase struct {
	store StateStore
}

// NewReplaceStateUseCase creates a new ReplaceStateUseCase instance.
func NewReplaceStateUseCase(store StateStore) *ReplaceStateUseCase {
	return &ReplaceStateUseCase{store: store}
}

// Execute performs the replacement.
func (uc *ReplaceStateUseCase) Execute(ctx context.Context, input ReplaceStateInput) (*StateOutput, error) {
	if input.State == nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidState,
			"finance document is required",
			nil,
		)
	}
	for _, cat := range input.State.Categories {
		if !budget.IsKnownCategory(cat.ID) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidState,
				"unknown category "+cat.ID,
				domainerror.ErrCategoryNotFound,
			)
		}
	}

	incoming := input.State.Clone()
	budget.NormalizeState(incoming)
	if err := ensureFinite(incoming); err != nil {
		return nil, err
	}

	state, err := uc.store.Replace(ctx, input.UserID, incoming)
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
