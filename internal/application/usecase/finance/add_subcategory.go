package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddSubcategoryInput represents the input for creating a subcategory.
type AddSubcategoryInput struct {
	UserID     uuid.UUID
	CategoryID string
	Name       string
	Percentage float64
}

// AddSubcategoryOutput represents the output of creating a subcategory.
type AddSubcategoryOutput struct {
	*StateOutput
	SubcategoryID string
}

// AddSubcategoryUseCase adds a subcategory and scales its siblings down.
type AddSubcategoryUseCase struct {
	store StateStore
}

// NewAddSubcategoryUseCase creates a new AddSubcategoryUseCase instance.
func NewAddSubcategoryUseCase(store StateStore) *AddSubcategoryUseCase {
	return &AddSubcategoryUseCase{store: store}
}

// Execute performs the addition.
func (uc *AddSubcategoryUseCase) Execute(ctx context.Context, input AddSubcategoryInput) (*AddSubcategoryOutput, error) {
	name, err := ValidateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := ValidatePercentage(input.Percentage); err != nil {
		return nil, err
	}
	sub, err := entity.NewSubCategory(name, input.Percentage)
	if err != nil {
		return nil, err
	}

	state, err := uc.store.Mutate(ctx, input.UserID, func(state *entity.FinanceState) error {
		cat, err := findCategory(state, input.CategoryID)
		if err != nil {
			return err
		}
		budget.AddSubcategory(cat, *sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AddSubcategoryOutput{StateOutput: NewStateOutput(state, time.Now()), SubcategoryID: sub.ID}, nil
}
