package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DeleteSubcategoryInput represents the input for deleting a subcategory.
type DeleteSubcategoryInput struct {
	UserID        uuid.UUID
	CategoryID    string
	SubcategoryID string
}

// DeleteSubcategoryUseCase removes a subcategory with its expenses.
type DeleteSubcategoryUseCase struct {
	store StateStore
}

// NewDeleteSubcategoryUseCase creates a new DeleteSubcategoryUseCase instance.
func NewDeleteSubcategoryUseCase(store StateStore) *DeleteSubcategoryUseCase {
	return &DeleteSubcategoryUseCase{store: store}
}

// Execute performs the deletion.
func (uc *DeleteSubcategoryUseCase) Execute(ctx context.Context, input DeleteSubcategoryInput) (*StateOutput, error) {
	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		if _, err := findCategory(state, input.CategoryID); err != nil {
			return err
		}
		if !budget.DeleteSubcategory(state, input.CategoryID, input.SubcategoryID) {
			return subcategoryNotFound(input.SubcategoryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
