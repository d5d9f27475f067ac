package budget

import (
	"math"
	"time"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// PayEMI records one installment of an EMI. The payment is booked as an
// expense on the needs "Bank EMI" subcategory when that subcategory exists.
// It returns false when the EMI is unknown.
func PayEMI(state *entity.FinanceState, emiID string, now time.Time) bool {
	emi := findEMI(state, emiID)
	if emi == nil {
		return false
	}

	bookInstallment(state, BankEMISubcategory, emi.Amount, "EMI Payment - "+emi.Name, now)

	emi.TenureLeft = max(0, emi.TenureLeft-1)
	emi.PaidCount++
	emi.IsActive = emi.TenureLeft > 0
	return true
}

// PayDebt records one monthly payment of a debt, booked as an expense on the
// needs "Debts" subcategory when it exists. While the debt stays open its
// reminder moves one month ahead; once cleared the reminder is dropped.
func PayDebt(state *entity.FinanceState, debtID string, now time.Time) bool {
	debt := findDebt(state, debtID)
	if debt == nil {
		return false
	}

	bookInstallment(state, DebtsSubcategory, debt.MonthlyPayment, "Debt Payment - "+debt.Name, now)

	debt.PaidAmount += debt.MonthlyPayment
	debt.PendingAmount = math.Max(0, debt.PendingAmount-debt.MonthlyPayment)
	debt.IsActive = debt.PendingAmount > 0
	if !debt.IsActive {
		debt.ReminderDate = nil
	} else if debt.ReminderDate != nil {
		next := debt.ReminderDate.AddDate(0, 1, 0)
		debt.ReminderDate = &next
	}
	return true
}

// EditEMI replaces the editable fields of an EMI.
func EditEMI(state *entity.FinanceState, emiID, name string, amount float64, tenureLeft, totalTenure int) bool {
	emi := findEMI(state, emiID)
	if emi == nil {
		return false
	}
	emi.Name = name
	emi.Amount = amount
	emi.TenureLeft = tenureLeft
	emi.TotalTenure = max(totalTenure, tenureLeft)
	emi.IsActive = tenureLeft > 0
	return true
}

// DeleteEMI removes an EMI. Past payments stay in the ledger.
func DeleteEMI(state *entity.FinanceState, emiID string) bool {
	for i := range state.EMIs {
		if state.EMIs[i].ID == emiID {
			state.EMIs = append(state.EMIs[:i], state.EMIs[i+1:]...)
			return true
		}
	}
	return false
}

// EditDebt replaces the editable fields of a debt and recomputes its timeline.
func EditDebt(state *entity.FinanceState, debtID, name string, pendingAmount, monthlyPayment float64, reminderDate *time.Time) bool {
	debt := findDebt(state, debtID)
	if debt == nil {
		return false
	}
	debt.Name = name
	debt.PendingAmount = pendingAmount
	debt.MonthlyPayment = monthlyPayment
	debt.TotalMonths = entity.DebtTimeline(pendingAmount, monthlyPayment)
	debt.IsActive = pendingAmount > 0
	debt.ReminderDate = reminderDate
	return true
}

// DeleteDebt removes a debt. Past payments stay in the ledger.
func DeleteDebt(state *entity.FinanceState, debtID string) bool {
	for i := range state.Debts {
		if state.Debts[i].ID == debtID {
			state.Debts = append(state.Debts[:i], state.Debts[i+1:]...)
			return true
		}
	}
	return false
}

// FindEMI returns the EMI with id, or nil.
func FindEMI(state *entity.FinanceState, id string) *entity.EMI {
	return findEMI(state, id)
}

// FindDebt returns the debt with id, or nil.
func FindDebt(state *entity.FinanceState, id string) *entity.Debt {
	return findDebt(state, id)
}

func findEMI(state *entity.FinanceState, id string) *entity.EMI {
	for i := range state.EMIs {
		if state.EMIs[i].ID == id {
			return &state.EMIs[i]
		}
	}
	return nil
}

func findDebt(state *entity.FinanceState, id string) *entity.Debt {
	for i := range state.Debts {
		if state.Debts[i].ID == id {
			return &state.Debts[i]
		}
	}
	return nil
}

func bookInstallment(state *entity.FinanceState, subcategoryName string, amount float64, description string, now time.Time) {
	needs := state.Category(entity.CategoryNeeds)
	if needs == nil {
		return
	}
	sub := needs.SubcategoryByName(subcategoryName)
	if sub == nil {
		return
	}
	expense, err := entity.NewExpense(amount, description, now, sub.ID)
	if err != nil {
		return
	}
	AddExpense(state, *expense)
}
