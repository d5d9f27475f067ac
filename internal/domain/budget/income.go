package budget

import (
	"time"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// AddIncome records an income transaction and reallocates the budget. The
// first income on a state without categories seeds the default categories.
func AddIncome(state *entity.FinanceState, income entity.IncomeTransaction) {
	state.IncomeTransactions = append(state.IncomeTransactions, income)
	newIncome := state.Income + income.Amount
	if len(state.Categories) == 0 {
		state.Income = newIncome
		state.Categories = SeedCategories(newIncome)
		return
	}
	HandleIncomeChange(state, newIncome)
}

// EditIncome replaces the fields of an income transaction and reallocates
// from the new income total.
func EditIncome(state *entity.FinanceState, incomeID string, amount float64, description, source string, date time.Time) bool {
	idx := state.IncomeIndex(incomeID)
	if idx < 0 {
		return false
	}
	tx := &state.IncomeTransactions[idx]
	tx.Amount = amount
	tx.Description = description
	tx.Source = source
	if !date.IsZero() {
		tx.Date = date
	}
	HandleIncomeChange(state, incomeTotal(state))
	return true
}

// DeleteIncome removes an income transaction and reallocates from what is left.
func DeleteIncome(state *entity.FinanceState, incomeID string) bool {
	idx := state.IncomeIndex(incomeID)
	if idx < 0 {
		return false
	}
	state.IncomeTransactions = append(state.IncomeTransactions[:idx], state.IncomeTransactions[idx+1:]...)
	HandleIncomeChange(state, incomeTotal(state))
	return true
}

func incomeTotal(state *entity.FinanceState) float64 {
	var total float64
	for _, tx := range state.IncomeTransactions {
		total += tx.Amount
	}
	return total
}
