package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// RenameSubcategoryInput represents the input for renaming a subcategory.
type RenameSubcategoryInput struct {
	UserID        uuid.UUID
	CategoryID    string
	SubcategoryID string
	Name          string
}

// RenameSubcategoryUseCase changes a subcategory's name.
type RenameSubcategoryUseCase struct {
	store StateStore
}

// NewRenameSubcategoryUseCase creates a new RenameSubcategoryUseCase instance.
func NewRenameSubcategoryUseCase(store StateStore) *RenameSubcategoryUseCase {
	return &RenameSubcategoryUseCase{store: store}
}

// Execute performs the rename.
func (uc *RenameSubcategoryUseCase) Execute(ctx context.Context, input RenameSubcategoryInput) (*StateOutput, error) {
	name, err := ValidateName(input.Name)
	if err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		cat, err := findCategory(state, input.CategoryID)
		if err != nil {
			return err
		}
		if !budget.RenameSubcategory(cat, input.SubcategoryID, name) {
			return subcategoryNotFound(input.SubcategoryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
