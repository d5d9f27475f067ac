package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/budget"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// GetHistoryInput represents the input for listing transaction history.
type GetHistoryInput struct {
	UserID     uuid.UUID
	Period     budget.Period
	CategoryID string
	Search     string
}

// GetHistoryUseCase lists expenses and income, newest first.
type GetHistoryUseCase struct {
	store StateStore
	now   func() time.Time
}

// NewGetHistoryUseCase creates a new GetHistoryUseCase instance.
func NewGetHistoryUseCase(store StateStore) *GetHistoryUseCase {
	return &GetHistoryUseCase{store: store, now: time.Now}
}

// Execute builds the filtered history.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, input GetHistoryInput) (*budget.History, error) {
	filter, err := historyFilter(input)
	if err != nil {
		return nil, err
	}
	state, err := uc.store.Load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	history := budget.BuildHistory(state, filter, uc.now())
	return &history, nil
}

func historyFilter(input GetHistoryInput) (budget.HistoryFilter, error) {
	switch input.Period {
	case "", budget.PeriodAll, budget.PeriodToday, budget.PeriodWeek, budget.PeriodMonth:
	default:
		return budget.HistoryFilter{}, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"period must be one of all, today, week, month",
			nil,
		)
	}
	if input.CategoryID != "" && input.CategoryID != budget.IncomeCategory && !budget.IsKnownCategory(input.CategoryID) {
		return budget.HistoryFilter{}, categoryNotFound(input.CategoryID)
	}
	return budget.HistoryFilter{
		Period:     input.Period,
		CategoryID: input.CategoryID,
		Search:     input.Search,
	}, nil
}
