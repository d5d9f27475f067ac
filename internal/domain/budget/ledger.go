package budget

import (
	"math"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddExpense books expense against the subcategory it references and appends
// it to the flat transaction log. Overspending is allowed and shows up as a
// negative balance. It returns false when the subcategory does not exist.
func AddExpense(state *entity.FinanceState, expense entity.Expense) bool {
	cat, sub := state.Subcategory(expense.SubcategoryID)
	if sub == nil {
		return false
	}

	sub.Expenses = append(sub.Expenses, expense)
	sub.SpentAmount += expense.Amount
	sub.Balance = sub.AllocatedAmount - sub.SpentAmount
	recomputeTotals(cat)

	state.Transactions = append(state.Transactions, expense)
	return true
}

// EditExpense changes the amount and description of a logged expense. The
// owning subcategory's spend moves by the difference, never below zero.
func EditExpense(state *entity.FinanceState, transactionID string, newAmount float64, newDescription string) bool {
	idx := state.TransactionIndex(transactionID)
	if idx < 0 {
		return false
	}
	tx := &state.Transactions[idx]
	delta := newAmount - tx.Amount
	tx.Amount = newAmount
	tx.Description = newDescription

	cat, sub := state.Subcategory(tx.SubcategoryID)
	if sub == nil {
		return true
	}
	for i := range sub.Expenses {
		if sub.Expenses[i].ID == transactionID {
			sub.Expenses[i].Amount = newAmount
			sub.Expenses[i].Description = newDescription
		}
	}
	applySpend(sub, delta)
	recomputeTotals(cat)
	return true
}

// DeleteExpense removes an expense from its subcategory and from the flat log.
// The subcategory's spend drops by its amount, never below zero.
func DeleteExpense(state *entity.FinanceState, transactionID string) bool {
	idx := state.TransactionIndex(transactionID)
	if idx < 0 {
		return false
	}
	tx := state.Transactions[idx]
	state.Transactions = append(state.Transactions[:idx], state.Transactions[idx+1:]...)

	cat, sub := state.Subcategory(tx.SubcategoryID)
	if sub == nil {
		return true
	}
	kept := sub.Expenses[:0]
	for _, e := range sub.Expenses {
		if e.ID != transactionID {
			kept = append(kept, e)
		}
	}
	sub.Expenses = kept
	applySpend(sub, -tx.Amount)
	recomputeTotals(cat)
	return true
}

// applySpend moves a subcategory's spend by delta, clamped at zero.
func applySpend(sub *entity.SubCategory, delta float64) {
	sub.SpentAmount = math.Max(0, sub.SpentAmount+delta)
	sub.Balance = sub.AllocatedAmount - sub.SpentAmount
}

// Transfer moves amount of allocation from one category to another. Each
// side's subcategory amounts are rescaled to the new category total; the sum
// of both totals is unchanged. It returns false when either category is
// unknown or both ids are the same.
func Transfer(state *entity.FinanceState, fromCategoryID, toCategoryID string, amount float64) bool {
	if fromCategoryID == toCategoryID {
		return false
	}
	from := state.Category(fromCategoryID)
	to := state.Category(toCategoryID)
	if from == nil || to == nil {
		return false
	}
	rescaleCategory(from, from.TotalAllocated-amount)
	rescaleCategory(to, to.TotalAllocated+amount)
	return true
}

// HandleIncomeChange reallocates every category from newIncome. Only
// allocation figures move; spend is left as it is.
func HandleIncomeChange(state *entity.FinanceState, newIncome float64) {
	state.Income = newIncome
	for i := range state.Categories {
		cat := &state.Categories[i]
		rescaleCategory(cat, Allocate(newIncome, cat.Percentage))
	}
}
