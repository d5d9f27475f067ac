// Package budget implements the allocation, redistribution and ledger rules
// that keep a FinanceState consistent. Every function here is synchronous and
// works on the state it is given; nothing is shared between calls.
package budget

import (
	"math"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// Allocate maps an income and a percentage share to an amount. No rounding
// is applied; presentation rounds.
func Allocate(income, percentage float64) float64 {
	return income * percentage / 100
}

// DistributeAcrossSubcategories returns a copy of subcategories with their
// allocated amount and balance derived from categoryAllocated and their stored
// percentage. Spent amounts and percentages are untouched.
func DistributeAcrossSubcategories(categoryAllocated float64, subcategories []entity.SubCategory) []entity.SubCategory {
	out := make([]entity.SubCategory, len(subcategories))
	for i, sub := range subcategories {
		sub.AllocatedAmount = Allocate(categoryAllocated, sub.AllocatedPercentage)
		sub.Balance = sub.AllocatedAmount - sub.SpentAmount
		out[i] = sub
	}
	return out
}

// recomputeTotals refreshes the cached category aggregates from its subcategories.
func recomputeTotals(cat *entity.MainCategory) {
	var spent float64
	for _, sub := range cat.Subcategories {
		spent += sub.SpentAmount
	}
	cat.TotalSpent = spent
	cat.TotalBalance = cat.TotalAllocated - spent
}

// rescaleCategory moves a category to newTotal. Subcategory amounts keep their
// relative sizes; a category with nothing allocated yet is filled from the
// stored percentages instead.
func rescaleCategory(cat *entity.MainCategory, newTotal float64) {
	oldTotal := cat.TotalAllocated
	cat.TotalAllocated = newTotal
	if oldTotal == 0 {
		cat.Subcategories = DistributeAcrossSubcategories(newTotal, cat.Subcategories)
	} else {
		ratio := newTotal / oldTotal
		for i := range cat.Subcategories {
			sub := &cat.Subcategories[i]
			sub.AllocatedAmount *= ratio
			sub.Balance = sub.AllocatedAmount - sub.SpentAmount
		}
	}
	cat.TotalBalance = cat.TotalAllocated - cat.TotalSpent
}

type categorySeed struct {
	id         string
	name       string
	percentage float64
	subs       []subcategorySeed
}

type subcategorySeed struct {
	name       string
	percentage float64
}

var defaultCategories = []categorySeed{
	{entity.CategoryNeeds, "NEEDS", 60, []subcategorySeed{
		{"Bank EMI", 30},
		{"Debts", 20},
		{"Home Needs", 15},
		{"Bills", 20},
		{"Education", 10},
		{"Insurances", 5},
	}},
	{entity.CategoryWants, "WANTS", 20, []subcategorySeed{
		{"Vehicle (Gas/Repair)", 25},
		{"Phone/Gadgets", 20},
		{"Dr/Pharmacy Visits", 30},
		{"Investments", 25},
	}},
	{entity.CategoryGoals, "GOALS", 15, []subcategorySeed{
		{"New Home", 40},
		{"New Vehicle", 30},
		{"New Furniture/Gadgets", 20},
		{"Tours/Travels", 10},
	}},
	{entity.CategoryUnwanted, "UNWANTED & UNEXPECTED", 5, []subcategorySeed{
		{"Hotels/Restaurants", 40},
		{"Entertainment", 35},
		{"Parties", 25},
	}},
}

// Names of the seeded subcategories that installment payments are booked against.
const (
	BankEMISubcategory = "Bank EMI"
	DebtsSubcategory   = "Debts"
)

// SeedCategories builds the four fixed categories with their default
// subcategories, allocated from income. An income of 0 yields zero amounts
// with the default percentages in place.
func SeedCategories(income float64) []entity.MainCategory {
	cats := make([]entity.MainCategory, 0, len(defaultCategories))
	for _, seed := range defaultCategories {
		total := Allocate(income, seed.percentage)
		subs := make([]entity.SubCategory, 0, len(seed.subs))
		for _, s := range seed.subs {
			subs = append(subs, entity.SubCategory{
				ID:                  uuid.NewString(),
				Name:                s.name,
				AllocatedPercentage: s.percentage,
				Expenses:            []entity.Expense{},
			})
		}
		cats = append(cats, entity.MainCategory{
			ID:             seed.id,
			Name:           seed.name,
			Percentage:     seed.percentage,
			TotalAllocated: total,
			TotalBalance:   total,
			Subcategories:  DistributeAcrossSubcategories(total, subs),
		})
	}
	return cats
}

// IsKnownCategory reports whether id is one of the fixed categories.
func IsKnownCategory(id string) bool {
	for _, seed := range defaultCategories {
		if seed.id == id {
			return true
		}
	}
	return false
}

// Finite reports whether every figure of state, and the sums derived from
// them, is a finite number.
func Finite(state *entity.FinanceState) bool {
	var allocated, spent, balance, pending, outgo float64
	ok := finite(state.Income)
	for _, tx := range state.IncomeTransactions {
		ok = ok && finite(tx.Amount)
	}
	for _, tx := range state.Transactions {
		ok = ok && finite(tx.Amount)
	}
	for _, cat := range state.Categories {
		ok = ok && finite(cat.Percentage) && finite(cat.TotalAllocated) && finite(cat.TotalSpent) && finite(cat.TotalBalance)
		allocated += cat.TotalAllocated
		spent += cat.TotalSpent
		balance += cat.TotalBalance
		for _, sub := range cat.Subcategories {
			ok = ok && finite(sub.AllocatedPercentage) && finite(sub.AllocatedAmount) &&
				finite(sub.SpentAmount) && finite(sub.Balance)
			for _, e := range sub.Expenses {
				ok = ok && finite(e.Amount)
			}
		}
	}
	for _, emi := range state.EMIs {
		ok = ok && finite(emi.Amount)
		outgo += emi.Amount
	}
	for _, debt := range state.Debts {
		ok = ok && finite(debt.PendingAmount) && finite(debt.MonthlyPayment) && finite(debt.PaidAmount)
		pending += debt.PendingAmount
	}
	return ok && finite(allocated) && finite(spent) && finite(balance) && finite(pending) && finite(outgo)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
