package budget

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

const tolerance = 1e-9

// seededState returns a state bootstrapped the way a first load does, then
// given income.
func seededState(t *testing.T, income float64) *entity.FinanceState {
	t.Helper()
	state := entity.NewFinanceState()
	state.Categories = SeedCategories(0)
	if income > 0 {
		tx, err := entity.NewIncomeTransaction(income, "salary", "employer", time.Now())
		require.NoError(t, err)
		AddIncome(state, *tx)
	}
	return state
}

// twoWayCategory builds a category of total split between subcategories a and b.
func twoWayCategory(total, pctA, pctB float64) *entity.MainCategory {
	cat := &entity.MainCategory{
		ID:             entity.CategoryWants,
		Name:           "WANTS",
		Percentage:     20,
		TotalAllocated: total,
		Subcategories: []entity.SubCategory{
			{ID: "a", Name: "A", AllocatedPercentage: pctA, Expenses: []entity.Expense{}},
			{ID: "b", Name: "B", AllocatedPercentage: pctB, Expenses: []entity.Expense{}},
		},
	}
	cat.Subcategories = DistributeAcrossSubcategories(total, cat.Subcategories)
	recomputeTotals(cat)
	return cat
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name       string
		income     float64
		percentage float64
		expected   float64
	}{
		{name: "needs share", income: 10000, percentage: 60, expected: 6000},
		{name: "fractional share", income: 1234.5, percentage: 15, expected: 185.175},
		{name: "zero income", income: 0, percentage: 60, expected: 0},
		{name: "full share", income: 500, percentage: 100, expected: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Allocate(tt.income, tt.percentage), tolerance)
		})
	}
}

func TestDistributeAcrossSubcategories(t *testing.T) {
	subs := []entity.SubCategory{
		{ID: "a", AllocatedPercentage: 30, SpentAmount: 100},
		{ID: "b", AllocatedPercentage: 70, SpentAmount: 0},
	}

	t.Run("derives amount and balance without touching spend", func(t *testing.T) {
		out := DistributeAcrossSubcategories(1000, subs)
		require.Len(t, out, 2)
		assert.InDelta(t, 300, out[0].AllocatedAmount, tolerance)
		assert.InDelta(t, 200, out[0].Balance, tolerance)
		assert.Equal(t, 100.0, out[0].SpentAmount)
		assert.InDelta(t, 700, out[1].AllocatedAmount, tolerance)
		assert.Equal(t, 30.0, out[0].AllocatedPercentage)
	})

	t.Run("is idempotent and leaves the input alone", func(t *testing.T) {
		first := DistributeAcrossSubcategories(1000, subs)
		second := DistributeAcrossSubcategories(1000, subs)
		assert.Equal(t, first, second)
		assert.Equal(t, 0.0, subs[0].AllocatedAmount)
	})

	t.Run("zero allocation keeps percentages", func(t *testing.T) {
		out := DistributeAcrossSubcategories(0, subs)
		assert.Equal(t, 0.0, out[1].AllocatedAmount)
		assert.Equal(t, 70.0, out[1].AllocatedPercentage)
		assert.Equal(t, -100.0, out[0].Balance)
	})
}

func TestSeedCategories(t *testing.T) {
	t.Run("zero income seeds percentages with zero amounts", func(t *testing.T) {
		cats := SeedCategories(0)
		require.Len(t, cats, 4)
		var total float64
		for _, cat := range cats {
			total += cat.Percentage
			assert.InDelta(t, 100, cat.PercentageSum(), tolerance, cat.ID)
			assert.Equal(t, 0.0, cat.TotalAllocated)
			for _, sub := range cat.Subcategories {
				assert.Equal(t, 0.0, sub.AllocatedAmount)
				assert.NotEmpty(t, sub.ID)
				assert.NotNil(t, sub.Expenses)
			}
		}
		assert.InDelta(t, 100, total, tolerance)
	})

	t.Run("seeds amounts from income", func(t *testing.T) {
		cats := SeedCategories(10000)
		assert.InDelta(t, 6000, cats[0].TotalAllocated, tolerance)
		assert.InDelta(t, 6000, cats[0].TotalBalance, tolerance)
		assert.InDelta(t, 1800, cats[0].Subcategories[0].AllocatedAmount, tolerance)
	})

	t.Run("known categories", func(t *testing.T) {
		assert.True(t, IsKnownCategory(entity.CategoryGoals))
		assert.False(t, IsKnownCategory("luxuries"))
	})
}

func TestFirstIncomeAllocatesNeeds(t *testing.T) {
	state := seededState(t, 10000)

	needs := state.Category(entity.CategoryNeeds)
	require.NotNil(t, needs)
	assert.InDelta(t, 6000, needs.TotalAllocated, tolerance)

	bankEMI := needs.SubcategoryByName(BankEMISubcategory)
	require.NotNil(t, bankEMI)
	assert.InDelta(t, 1800, bankEMI.AllocatedAmount, tolerance)
	assert.InDelta(t, 1800, bankEMI.Balance, tolerance)
	assert.Equal(t, 10000.0, state.Income)
}

func TestAddIncomeSeedsWhenCategoriesMissing(t *testing.T) {
	state := entity.NewFinanceState()
	tx, err := entity.NewIncomeTransaction(5000, "bonus", "employer", time.Now())
	require.NoError(t, err)

	AddIncome(state, *tx)

	require.Len(t, state.Categories, 4)
	assert.InDelta(t, 250, state.Category(entity.CategoryUnwanted).TotalAllocated, tolerance)
	assert.Len(t, state.IncomeTransactions, 1)
}

func TestFinite(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(state *entity.FinanceState)
		expected bool
	}{
		{name: "ordinary state", mutate: func(*entity.FinanceState) {}, expected: true},
		{name: "income overflowing into allocation", mutate: func(state *entity.FinanceState) {
			HandleIncomeChange(state, math.MaxFloat64)
		}, expected: false},
		{name: "totals overflowing only when summed", mutate: func(state *entity.FinanceState) {
			state.Categories[0].TotalAllocated = math.MaxFloat64
			state.Categories[1].TotalAllocated = math.MaxFloat64
		}, expected: false},
		{name: "not a number", mutate: func(state *entity.FinanceState) {
			state.Categories[2].Subcategories[0].Balance = math.NaN()
		}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := seededState(t, 10000)
			tt.mutate(state)
			assert.Equal(t, tt.expected, Finite(state))
		})
	}
}
