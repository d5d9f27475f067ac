package finance

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// fakeStore keeps states in memory with the same copy-on-write contract as
// the session store.
type fakeStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*entity.FinanceState
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[uuid.UUID]*entity.FinanceState)}
}

func (s *fakeStore) current(userID uuid.UUID) *entity.FinanceState {
	state, ok := s.states[userID]
	if !ok {
		state = entity.NewFinanceState()
		state.Categories = budget.SeedCategories(0)
		s.states[userID] = state
	}
	return state
}

func (s *fakeStore) Load(_ context.Context, userID uuid.UUID) (*entity.FinanceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(userID).Clone(), nil
}

func (s *fakeStore) Mutate(_ context.Context, userID uuid.UUID, fn func(*entity.FinanceState) error) (*entity.FinanceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.current(userID).Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.states[userID] = working
	s.writes++
	return working.Clone(), nil
}

func (s *fakeStore) Replace(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) (*entity.FinanceState, error) {
	return s.Mutate(ctx, userID, func(working *entity.FinanceState) error {
		*working = *state.Clone()
		return nil
	})
}

func requireBudgetCode(t *testing.T, err error, code domainerror.BudgetErrorCode) {
	t.Helper()
	var budgetErr *domainerror.BudgetError
	require.True(t, errors.As(err, &budgetErr), "expected BudgetError, got %v", err)
	assert.Equal(t, code, budgetErr.Code)
}

func withIncome(t *testing.T, store *fakeStore, userID uuid.UUID, amount float64) *AddIncomeOutput {
	t.Helper()
	out, err := NewAddIncomeUseCase(store).Execute(context.Background(), AddIncomeInput{
		UserID: userID, Amount: amount, Description: "salary", Source: "employer",
	})
	require.NoError(t, err)
	return out
}

func TestAddIncomeUseCase(t *testing.T) {
	t.Run("allocates the first income", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()

		out := withIncome(t, store, userID, 10000)

		needs := out.State.Category(entity.CategoryNeeds)
		assert.InDelta(t, 6000, needs.TotalAllocated, 1e-9)
		assert.InDelta(t, 1800, needs.SubcategoryByName(budget.BankEMISubcategory).AllocatedAmount, 1e-9)
		assert.InDelta(t, 10000, out.Summary.TotalAllocated, 1e-9)
		assert.NotEmpty(t, out.Income.ID)
	})

	t.Run("rejects non-positive amounts before touching state", func(t *testing.T) {
		store := newFakeStore()

		_, err := NewAddIncomeUseCase(store).Execute(context.Background(), AddIncomeInput{UserID: uuid.New(), Amount: 0})

		requireBudgetCode(t, err, domainerror.ErrCodeInvalidAmount)
		assert.ErrorIs(t, err, domainerror.ErrInvalidAmount)
		assert.Equal(t, 0, store.writes)
	})

	t.Run("rejects amounts above the cap", func(t *testing.T) {
		store := newFakeStore()

		_, err := NewAddIncomeUseCase(store).Execute(context.Background(), AddIncomeInput{UserID: uuid.New(), Amount: 1e308})

		requireBudgetCode(t, err, domainerror.ErrCodeInvalidAmount)
		assert.Equal(t, 0, store.writes)
	})

	t.Run("keeps the state when reallocation would overflow", func(t *testing.T) {
		store := newFakeStore()
		userID := uuid.New()
		seeded := store.current(userID)
		seeded.Income = math.MaxFloat64
		seeded.IncomeTransactions = []entity.IncomeTransaction{{ID: "huge", Amount: math.MaxFloat64}}

		_, err := NewAddIncomeUseCase(store).Execute(context.Background(), AddIncomeInput{UserID: userID, Amount: 1000})

		requireBudgetCode(t, err, domainerror.ErrCodeInvalidAmount)
		assert.Equal(t, 0, store.writes)
		state, err := store.Load(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, budget.Finite(state))
		assert.Len(t, state.IncomeTransactions, 1)
	})
}

func TestIncomeEditAndDelete(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	first := withIncome(t, store, userID, 4000)
	withIncome(t, store, userID, 6000)

	out, err := NewEditIncomeUseCase(store).Execute(context.Background(), EditIncomeInput{
		UserID: userID, IncomeID: first.Income.ID, Amount: 2000, Description: "part time",
	})
	require.NoError(t, err)
	assert.Equal(t, 8000.0, out.State.Income)

	out, err = NewDeleteIncomeUseCase(store).Execute(context.Background(), DeleteIncomeInput{UserID: userID, IncomeID: first.Income.ID})
	require.NoError(t, err)
	assert.Equal(t, 6000.0, out.State.Income)

	_, err = NewDeleteIncomeUseCase(store).Execute(context.Background(), DeleteIncomeInput{UserID: userID, IncomeID: first.Income.ID})
	requireBudgetCode(t, err, domainerror.ErrCodeTransactionNotFound)
}

func TestSetAllocationUseCase(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	state := withIncome(t, store, userID, 10000).State
	wants := state.Category(entity.CategoryWants)
	target := wants.Subcategories[0].ID

	tests := []struct {
		name       string
		categoryID string
		subID      string
		amount     float64
		code       domainerror.BudgetErrorCode
	}{
		{name: "negative amount", categoryID: entity.CategoryWants, subID: target, amount: -1, code: domainerror.ErrCodeInvalidAmount},
		{name: "unknown category", categoryID: "luxuries", subID: target, amount: 10, code: domainerror.ErrCodeCategoryNotFound},
		{name: "unknown subcategory", categoryID: entity.CategoryWants, subID: "nope", amount: 10, code: domainerror.ErrCodeSubcategoryNotFound},
		{name: "subcategory of another category", categoryID: entity.CategoryGoals, subID: target, amount: 10, code: domainerror.ErrCodeSubcategoryNotFound},
		{name: "more than the category holds", categoryID: entity.CategoryWants, subID: target, amount: 2000.01, code: domainerror.ErrCodeAllocationExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSetAllocationUseCase(store).Execute(context.Background(), SetAllocationInput{
				UserID: userID, CategoryID: tt.categoryID, SubcategoryID: tt.subID, Amount: tt.amount,
			})
			requireBudgetCode(t, err, tt.code)
		})
	}

	t.Run("redistributes siblings", func(t *testing.T) {
		out, err := NewSetAllocationUseCase(store).Execute(context.Background(), SetAllocationInput{
			UserID: userID, CategoryID: entity.CategoryWants, SubcategoryID: target, Amount: 1000,
		})
		require.NoError(t, err)

		wants := out.State.Category(entity.CategoryWants)
		assert.InDelta(t, 50, wants.Subcategories[0].AllocatedPercentage, 1e-9)
		assert.InEpsilon(t, 100, wants.PercentageSum(), 1e-9)
	})

	t.Run("no allocation yet", func(t *testing.T) {
		fresh := newFakeStore()
		other := uuid.New()
		state, err := fresh.Load(context.Background(), other)
		require.NoError(t, err)

		_, err = NewSetAllocationUseCase(fresh).Execute(context.Background(), SetAllocationInput{
			UserID: other, CategoryID: entity.CategoryNeeds, SubcategoryID: state.Categories[0].Subcategories[0].ID, Amount: 0,
		})
		requireBudgetCode(t, err, domainerror.ErrCodeNoAllocation)
	})
}

func TestSubcategoryLifecycle(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	withIncome(t, store, userID, 10000)
	ctx := context.Background()

	added, err := NewAddSubcategoryUseCase(store).Execute(ctx, AddSubcategoryInput{
		UserID: userID, CategoryID: entity.CategoryGoals, Name: "  Wedding ", Percentage: 25,
	})
	require.NoError(t, err)
	_, sub := added.State.Subcategory(added.SubcategoryID)
	require.NotNil(t, sub)
	assert.Equal(t, "Wedding", sub.Name)
	assert.InDelta(t, 375, sub.AllocatedAmount, 1e-9)

	_, err = NewAddSubcategoryUseCase(store).Execute(ctx, AddSubcategoryInput{
		UserID: userID, CategoryID: entity.CategoryGoals, Name: "Too big", Percentage: 120,
	})
	requireBudgetCode(t, err, domainerror.ErrCodeInvalidPercentage)

	_, err = NewAddSubcategoryUseCase(store).Execute(ctx, AddSubcategoryInput{
		UserID: userID, CategoryID: entity.CategoryGoals, Name: " ", Percentage: 5,
	})
	requireBudgetCode(t, err, domainerror.ErrCodeEmptyName)

	renamed, err := NewRenameSubcategoryUseCase(store).Execute(ctx, RenameSubcategoryInput{
		UserID: userID, CategoryID: entity.CategoryGoals, SubcategoryID: added.SubcategoryID, Name: "Honeymoon",
	})
	require.NoError(t, err)
	_, sub = renamed.State.Subcategory(added.SubcategoryID)
	assert.Equal(t, "Honeymoon", sub.Name)

	deleted, err := NewDeleteSubcategoryUseCase(store).Execute(ctx, DeleteSubcategoryInput{
		UserID: userID, CategoryID: entity.CategoryGoals, SubcategoryID: added.SubcategoryID,
	})
	require.NoError(t, err)
	_, sub = deleted.State.Subcategory(added.SubcategoryID)
	assert.Nil(t, sub)
	assert.InEpsilon(t, 100, deleted.State.Category(entity.CategoryGoals).PercentageSum(), 1e-9)

	_, err = NewDeleteSubcategoryUseCase(store).Execute(ctx, DeleteSubcategoryInput{
		UserID: userID, CategoryID: entity.CategoryGoals, SubcategoryID: added.SubcategoryID,
	})
	requireBudgetCode(t, err, domainerror.ErrCodeSubcategoryNotFound)
}

func TestExpenseLifecycle(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	state := withIncome(t, store, userID, 10000).State
	subID := state.Category(entity.CategoryWants).Subcategories[1].ID
	ctx := context.Background()

	added, err := NewAddExpenseUseCase(store).Execute(ctx, AddExpenseInput{
		UserID: userID, SubcategoryID: subID, Amount: 200, Description: "headphones",
	})
	require.NoError(t, err)
	_, sub := added.State.Subcategory(subID)
	assert.Equal(t, 200.0, sub.SpentAmount)
	assert.InDelta(t, 200, sub.Balance, 1e-9)

	_, err = NewAddExpenseUseCase(store).Execute(ctx, AddExpenseInput{UserID: userID, SubcategoryID: "ghost", Amount: 5})
	requireBudgetCode(t, err, domainerror.ErrCodeSubcategoryNotFound)

	edited, err := NewEditExpenseUseCase(store).Execute(ctx, EditExpenseInput{
		UserID: userID, TransactionID: added.Expense.ID, Amount: 150, Description: "headphones (sale)",
	})
	require.NoError(t, err)
	_, sub = edited.State.Subcategory(subID)
	assert.Equal(t, 150.0, sub.SpentAmount)

	deleted, err := NewDeleteExpenseUseCase(store).Execute(ctx, DeleteExpenseInput{UserID: userID, TransactionID: added.Expense.ID})
	require.NoError(t, err)
	_, sub = deleted.State.Subcategory(subID)
	assert.Equal(t, 0.0, sub.SpentAmount)
	assert.Empty(t, deleted.State.Transactions)

	_, err = NewEditExpenseUseCase(store).Execute(ctx, EditExpenseInput{UserID: userID, TransactionID: added.Expense.ID, Amount: 1})
	requireBudgetCode(t, err, domainerror.ErrCodeTransactionNotFound)
}

func TestTransferUseCase(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	withIncome(t, store, userID, 10000)
	ctx := context.Background()

	tests := []struct {
		name  string
		input TransferInput
		code  domainerror.BudgetErrorCode
	}{
		{name: "zero amount", input: TransferInput{FromCategoryID: entity.CategoryNeeds, ToCategoryID: entity.CategoryWants}, code: domainerror.ErrCodeInvalidAmount},
		{name: "same category", input: TransferInput{FromCategoryID: entity.CategoryNeeds, ToCategoryID: entity.CategoryNeeds, Amount: 5}, code: domainerror.ErrCodeSameCategory},
		{name: "unknown target", input: TransferInput{FromCategoryID: entity.CategoryNeeds, ToCategoryID: "luxuries", Amount: 5}, code: domainerror.ErrCodeCategoryNotFound},
		{name: "more than the source holds", input: TransferInput{FromCategoryID: entity.CategoryUnwanted, ToCategoryID: entity.CategoryGoals, Amount: 501}, code: domainerror.ErrCodeAllocationExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = userID
			_, err := NewTransferUseCase(store).Execute(ctx, tt.input)
			requireBudgetCode(t, err, tt.code)
		})
	}

	t.Run("moves allocation", func(t *testing.T) {
		out, err := NewTransferUseCase(store).Execute(ctx, TransferInput{
			UserID: userID, FromCategoryID: entity.CategoryUnwanted, ToCategoryID: entity.CategoryGoals, Amount: 500,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, out.State.Category(entity.CategoryUnwanted).TotalAllocated)
		assert.InDelta(t, 2000, out.State.Category(entity.CategoryGoals).TotalAllocated, 1e-9)
		assert.InDelta(t, 10000, out.Summary.TotalAllocated, 1e-9)
	})
}

func TestReplaceStateUseCase(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	ctx := context.Background()

	t.Run("unknown categories are rejected", func(t *testing.T) {
		doc := entity.NewFinanceState()
		doc.Categories = append(doc.Categories, entity.MainCategory{ID: "luxuries"})

		_, err := NewReplaceStateUseCase(store).Execute(ctx, ReplaceStateInput{UserID: userID, State: doc})

		requireBudgetCode(t, err, domainerror.ErrCodeInvalidState)
	})

	t.Run("drifted percentages are renormalized", func(t *testing.T) {
		doc := entity.NewFinanceState()
		doc.Income = 1000
		doc.Categories = budget.SeedCategories(1000)
		doc.Categories[1].Subcategories[0].AllocatedPercentage = 40

		out, err := NewReplaceStateUseCase(store).Execute(ctx, ReplaceStateInput{UserID: userID, State: doc})

		require.NoError(t, err)
		assert.InEpsilon(t, 100, out.State.Categories[1].PercentageSum(), 1e-9)
		assert.Equal(t, 20.0, doc.Categories[1].Subcategories[1].AllocatedPercentage, "input document is not modified")
	})

	t.Run("overflowing figures are rejected", func(t *testing.T) {
		doc := entity.NewFinanceState()
		doc.Categories = budget.SeedCategories(0)
		doc.Categories[0].TotalAllocated = math.MaxFloat64
		doc.Categories[1].TotalAllocated = math.MaxFloat64

		_, err := NewReplaceStateUseCase(store).Execute(ctx, ReplaceStateInput{UserID: userID, State: doc})

		requireBudgetCode(t, err, domainerror.ErrCodeInvalidAmount)
	})

	t.Run("nil document", func(t *testing.T) {
		_, err := NewReplaceStateUseCase(store).Execute(ctx, ReplaceStateInput{UserID: userID})
		requireBudgetCode(t, err, domainerror.ErrCodeInvalidState)
	})
}

func TestGetHistoryUseCase(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	state := withIncome(t, store, userID, 3000).State
	subID := state.Category(entity.CategoryNeeds).Subcategories[3].ID
	_, err := NewAddExpenseUseCase(store).Execute(context.Background(), AddExpenseInput{
		UserID: userID, SubcategoryID: subID, Amount: 120, Description: "electricity",
	})
	require.NoError(t, err)

	uc := NewGetHistoryUseCase(store)

	history, err := uc.Execute(context.Background(), GetHistoryInput{UserID: userID, Period: budget.PeriodToday})
	require.NoError(t, err)
	assert.Len(t, history.Entries, 2)
	assert.InDelta(t, 2880, history.Net, 1e-9)

	history, err = uc.Execute(context.Background(), GetHistoryInput{UserID: userID, CategoryID: budget.IncomeCategory})
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, budget.EntryIncome, history.Entries[0].Type)

	_, err = uc.Execute(context.Background(), GetHistoryInput{UserID: userID, Period: "fortnight"})
	requireBudgetCode(t, err, domainerror.ErrCodeMissingBudgetFields)

	_, err = uc.Execute(context.Background(), GetHistoryInput{UserID: userID, CategoryID: "luxuries"})
	requireBudgetCode(t, err, domainerror.ErrCodeCategoryNotFound)
}

type stubExporter struct {
	got budget.History
}

func (e *stubExporter) Export(history budget.History) ([]byte, error) {
	e.got = history
	return []byte("workbook"), nil
}

func (e *stubExporter) ContentType() string { return "application/test" }

func (e *stubExporter) Extension() string { return ".test" }

func TestExportHistoryUseCase(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	withIncome(t, store, userID, 3000)
	exporter := &stubExporter{}
	uc := NewExportHistoryUseCase(store, exporter)
	uc.now = func() time.Time { return time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC) }

	out, err := uc.Execute(context.Background(), GetHistoryInput{UserID: userID})

	require.NoError(t, err)
	assert.Equal(t, "transactions-2026-07-04.test", out.Filename)
	assert.Equal(t, "application/test", out.ContentType)
	assert.Equal(t, []byte("workbook"), out.Content)
	assert.Len(t, exporter.got.Entries, 1)
}
