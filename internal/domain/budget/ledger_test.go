package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// stateWithWants returns a state whose only category is a 1000 wants budget
// split 50/50 between a and b.
func stateWithWants() *entity.FinanceState {
	state := entity.NewFinanceState()
	state.Categories = append(state.Categories, *twoWayCategory(1000, 50, 50))
	return state
}

func bookExpense(t *testing.T, state *entity.FinanceState, subID string, amount float64) entity.Expense {
	t.Helper()
	expense, err := entity.NewExpense(amount, "expense", time.Now(), subID)
	require.NoError(t, err)
	require.True(t, AddExpense(state, *expense))
	return *expense
}

func TestAddExpense(t *testing.T) {
	t.Run("spend and balance move with the expense", func(t *testing.T) {
		state := stateWithWants()

		bookExpense(t, state, "a", 200)

		cat, sub := state.Subcategory("a")
		require.NotNil(t, sub)
		assert.Equal(t, 200.0, sub.SpentAmount)
		assert.InDelta(t, 300, sub.Balance, tolerance)
		assert.Len(t, sub.Expenses, 1)
		assert.Equal(t, 200.0, cat.TotalSpent)
		assert.InDelta(t, 800, cat.TotalBalance, tolerance)
		assert.Len(t, state.Transactions, 1)
	})

	t.Run("overspending shows as negative balance", func(t *testing.T) {
		state := stateWithWants()

		bookExpense(t, state, "b", 650)

		_, sub := state.Subcategory("b")
		assert.InDelta(t, -150, sub.Balance, tolerance)
		assert.True(t, sub.IsOverspent())
	})

	t.Run("unknown subcategory is rejected", func(t *testing.T) {
		state := stateWithWants()
		expense, err := entity.NewExpense(10, "lost", time.Now(), "nowhere")
		require.NoError(t, err)

		assert.False(t, AddExpense(state, *expense))
		assert.Empty(t, state.Transactions)
	})
}

func TestEditExpense(t *testing.T) {
	t.Run("spend follows the new amount", func(t *testing.T) {
		state := stateWithWants()
		expense := bookExpense(t, state, "a", 200)

		require.True(t, EditExpense(state, expense.ID, 150, "cheaper"))

		cat, sub := state.Subcategory("a")
		assert.Equal(t, 150.0, sub.SpentAmount)
		assert.InDelta(t, 350, sub.Balance, tolerance)
		assert.Equal(t, "cheaper", sub.Expenses[0].Description)
		assert.Equal(t, 150.0, sub.Expenses[0].Amount)
		assert.Equal(t, 150.0, state.Transactions[0].Amount)
		assert.Equal(t, 150.0, cat.TotalSpent)
	})

	t.Run("spend never drops below zero", func(t *testing.T) {
		state := stateWithWants()
		expense := bookExpense(t, state, "a", 200)
		_, sub := state.Subcategory("a")
		sub.SpentAmount = 100

		require.True(t, EditExpense(state, expense.ID, 10, "refund"))

		_, sub = state.Subcategory("a")
		assert.Equal(t, 0.0, sub.SpentAmount)
		assert.InDelta(t, 500, sub.Balance, tolerance)
	})

	t.Run("unknown transaction is a no-op", func(t *testing.T) {
		state := stateWithWants()
		bookExpense(t, state, "a", 200)
		before := state.Clone()

		assert.False(t, EditExpense(state, "missing", 1, "x"))
		assert.Equal(t, before, state)
	})
}

func TestDeleteExpense(t *testing.T) {
	state := stateWithWants()
	keep := bookExpense(t, state, "a", 40)
	drop := bookExpense(t, state, "a", 60)

	require.True(t, DeleteExpense(state, drop.ID))

	cat, sub := state.Subcategory("a")
	assert.Equal(t, 40.0, sub.SpentAmount)
	require.Len(t, sub.Expenses, 1)
	assert.Equal(t, keep.ID, sub.Expenses[0].ID)
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, keep.ID, state.Transactions[0].ID)
	assert.Equal(t, 40.0, cat.TotalSpent)

	assert.False(t, DeleteExpense(state, drop.ID))
}

func TestTransfer(t *testing.T) {
	t.Run("moves allocation and keeps the grand total", func(t *testing.T) {
		state := seededState(t, 10000)
		bookExpense(t, state, state.Category(entity.CategoryNeeds).Subcategories[2].ID, 250)
		before := state.Category(entity.CategoryNeeds).TotalAllocated + state.Category(entity.CategoryWants).TotalAllocated

		require.True(t, Transfer(state, entity.CategoryNeeds, entity.CategoryWants, 1000))

		needs := state.Category(entity.CategoryNeeds)
		wants := state.Category(entity.CategoryWants)
		assert.InDelta(t, 5000, needs.TotalAllocated, tolerance)
		assert.InDelta(t, 3000, wants.TotalAllocated, tolerance)
		assert.InDelta(t, before, needs.TotalAllocated+wants.TotalAllocated, tolerance)
		assert.InDelta(t, 4750, needs.TotalBalance, tolerance)
		assert.Equal(t, 250.0, needs.TotalSpent)
		// Bank EMI keeps its 30% of the smaller needs budget.
		assert.InDelta(t, 1500, needs.Subcategories[0].AllocatedAmount, tolerance)
		assertConserved(t, needs)
		assertConserved(t, wants)
	})

	t.Run("empty destination fills from percentages", func(t *testing.T) {
		state := seededState(t, 0)
		state.Category(entity.CategoryGoals).TotalAllocated = 500
		require.True(t, Transfer(state, entity.CategoryGoals, entity.CategoryNeeds, 200))

		needs := state.Category(entity.CategoryNeeds)
		assert.InDelta(t, 200, needs.TotalAllocated, tolerance)
		assert.InDelta(t, 60, needs.Subcategories[0].AllocatedAmount, tolerance)
	})

	t.Run("rejects same or unknown categories", func(t *testing.T) {
		state := seededState(t, 1000)
		assert.False(t, Transfer(state, entity.CategoryNeeds, entity.CategoryNeeds, 10))
		assert.False(t, Transfer(state, entity.CategoryNeeds, "luxuries", 10))
		assert.InDelta(t, 600, state.Category(entity.CategoryNeeds).TotalAllocated, tolerance)
	})
}

func TestHandleIncomeChange(t *testing.T) {
	t.Run("reallocates without touching spend", func(t *testing.T) {
		state := seededState(t, 10000)
		subID := state.Category(entity.CategoryWants).Subcategories[0].ID
		bookExpense(t, state, subID, 300)

		HandleIncomeChange(state, 20000)

		wants := state.Category(entity.CategoryWants)
		assert.Equal(t, 20000.0, state.Income)
		assert.InDelta(t, 4000, wants.TotalAllocated, tolerance)
		assert.InDelta(t, 1000, wants.Subcategories[0].AllocatedAmount, tolerance)
		assert.Equal(t, 300.0, wants.Subcategories[0].SpentAmount)
		assert.InDelta(t, 700, wants.Subcategories[0].Balance, tolerance)
		assert.InDelta(t, 3700, wants.TotalBalance, tolerance)
	})

	t.Run("zero income keeps percentages", func(t *testing.T) {
		state := seededState(t, 10000)

		HandleIncomeChange(state, 0)

		for _, cat := range state.Categories {
			assert.Equal(t, 0.0, cat.TotalAllocated)
			assertConserved(t, &cat)
			for _, sub := range cat.Subcategories {
				assert.Equal(t, 0.0, sub.AllocatedAmount)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		state := seededState(t, 8000)

		HandleIncomeChange(state, 12000)
		once := state.Clone()
		HandleIncomeChange(state, 12000)

		assert.Equal(t, once, state)
	})
}
