// Package finance contains the budget use cases: income, subcategory
// allocation, expenses, transfers and history.
package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for descriptions.
	MaxDescriptionLength = 255
	// MaxNameLength is the maximum allowed length for subcategory, EMI and debt names.
	MaxNameLength = 100
	// MaxAmount is the largest single amount accepted.
	MaxAmount = 1e12
)

// StateStore is the single write path to a user's finance state.
type StateStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*entity.FinanceState, error)
	Mutate(ctx context.Context, userID uuid.UUID, fn func(state *entity.FinanceState) error) (*entity.FinanceState, error)
	Replace(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) (*entity.FinanceState, error)
}

// StateOutput is the state after an operation together with its overview figures.
type StateOutput struct {
	State   *entity.FinanceState
	Summary budget.Summary
}

// NewStateOutput summarizes state at now.
func NewStateOutput(state *entity.FinanceState, now time.Time) *StateOutput {
	return &StateOutput{
		State:   state,
		Summary: budget.Summarize(state, now),
	}
}

// ValidateAmount rejects zero, negative and oversized amounts.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}
	if amount > MaxAmount {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAmount,
			fmt.Sprintf("amount must not exceed %.0f", MaxAmount),
			domainerror.ErrInvalidAmount,
		)
	}
	return nil
}

// ensureFinite rejects a mutation that would leave a figure of state
// overflowing, so the state in memory can always be served and saved.
func ensureFinite(state *entity.FinanceState) error {
	if !budget.Finite(state) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAmount,
			"amounts are too large",
			domainerror.ErrInvalidAmount,
		)
	}
	return nil
}

// ValidateName trims name and rejects blank or overly long names.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerror.NewBudgetError(
			domainerror.ErrCodeEmptyName,
			"name must not be empty",
			domainerror.ErrEmptyName,
		)
	}
	if len(name) > MaxNameLength {
		return "", domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			fmt.Sprintf("name must not exceed %d characters", MaxNameLength),
			domainerror.ErrEmptyName,
		)
	}
	return name, nil
}

// ValidateDescription rejects overly long descriptions.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			nil,
		)
	}
	return nil
}

// ValidatePercentage accepts percentages in (0, 100].
func ValidatePercentage(percentage float64) error {
	if percentage <= 0 || percentage > 100 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidPercentage,
			"percentage must be greater than 0 and at most 100",
			domainerror.ErrInvalidPercentage,
		)
	}
	return nil
}

func categoryNotFound(categoryID string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeCategoryNotFound,
		fmt.Sprintf("category %q not found", categoryID),
		domainerror.ErrCategoryNotFound,
	)
}

func subcategoryNotFound(subcategoryID string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeSubcategoryNotFound,
		fmt.Sprintf("subcategory %q not found", subcategoryID),
		domainerror.ErrSubcategoryNotFound,
	)
}

func transactionNotFound(transactionID string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeTransactionNotFound,
		fmt.Sprintf("transaction %q not found", transactionID),
		domainerror.ErrTransactionNotFound,
	)
}

// findCategory returns the category or a not-found error.
func findCategory(state *entity.FinanceState, categoryID string) (*entity.MainCategory, error) {
	cat := state.Category(categoryID)
	if cat == nil {
		return nil, categoryNotFound(categoryID)
	}
	return cat, nil
}
