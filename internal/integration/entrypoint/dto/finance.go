package dto

import (
	"time"

	"github.com/nivi-finance/backend/internal/application/usecase/finance"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// ExpenseDocument is an expense as exchanged with the client.
type ExpenseDocument struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount" binding:"gte=0,lte=1000000000000"`
	Description   string    `json:"description" binding:"max=255"`
	Date          time.Time `json:"date"`
	SubcategoryID string    `json:"subcategoryId"`
}

// SubcategoryDocument is a subcategory as exchanged with the client.
type SubcategoryDocument struct {
	ID                  string            `json:"id" binding:"required"`
	Name                string            `json:"name" binding:"required,max=100"`
	AllocatedAmount     float64           `json:"allocatedAmount"`
	AllocatedPercentage float64           `json:"allocatedPercentage" binding:"percentage"`
	SpentAmount         float64           `json:"spentAmount"`
	Balance             float64           `json:"balance"`
	Expenses            []ExpenseDocument `json:"expenses" binding:"dive"`
}

// CategoryDocument is a main category as exchanged with the client.
type CategoryDocument struct {
	ID             string                `json:"id" binding:"required"`
	Name           string                `json:"name"`
	Percentage     float64               `json:"percentage" binding:"percentage"`
	TotalAllocated float64               `json:"totalAllocated"`
	TotalSpent     float64               `json:"totalSpent"`
	TotalBalance   float64               `json:"totalBalance"`
	Subcategories  []SubcategoryDocument `json:"subcategories" binding:"dive"`
}

// IncomeDocument is an income transaction as exchanged with the client.
type IncomeDocument struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount" binding:"gte=0,lte=1000000000000"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Date        time.Time `json:"date"`
}

// EMIDocument is an EMI as exchanged with the client. Progress is output only.
type EMIDocument struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount" binding:"gte=0,lte=1000000000000"`
	TenureLeft  int     `json:"tenureLeft" binding:"gte=0"`
	TotalTenure int     `json:"totalTenure" binding:"gte=0"`
	PaidCount   int     `json:"paidCount" binding:"gte=0"`
	IsActive    bool    `json:"isActive"`
	Progress    float64 `json:"progress"`
}

// DebtDocument is a debt as exchanged with the client. Progress is output only.
type DebtDocument struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	PendingAmount  float64    `json:"pendingAmount" binding:"gte=0,lte=1000000000000"`
	MonthlyPayment float64    `json:"monthlyPayment" binding:"gte=0,lte=1000000000000"`
	TotalMonths    int        `json:"totalMonths"`
	PaidAmount     float64    `json:"paidAmount"`
	IsActive       bool       `json:"isActive"`
	ReminderDate   *time.Time `json:"reminderDate,omitempty"`
	Progress       float64    `json:"progress"`
}

// FinanceDocument is the whole finance state of a user.
type FinanceDocument struct {
	Income             float64            `json:"income" binding:"gte=0,lte=1000000000000"`
	IncomeTransactions []IncomeDocument   `json:"incomeTransactions" binding:"dive"`
	Categories         []CategoryDocument `json:"categories" binding:"dive"`
	EMIs               []EMIDocument      `json:"emis" binding:"dive"`
	Debts              []DebtDocument     `json:"debts" binding:"dive"`
	Transactions       []ExpenseDocument  `json:"transactions" binding:"dive"`
}

// SummaryResponse holds the overview figures shown next to the state.
type SummaryResponse struct {
	TotalAllocated       float64  `json:"totalAllocated"`
	TotalSpent           float64  `json:"totalSpent"`
	TotalBalance         float64  `json:"totalBalance"`
	OverspentIDs         []string `json:"overspentSubcategoryIds"`
	MonthlyEMIOutgo      float64  `json:"monthlyEmiOutgo"`
	TotalPendingDebt     float64  `json:"totalPendingDebt"`
	DebtRemindersDueSoon []string `json:"debtRemindersDueSoon"`
}

// FinanceStateResponse is the state document plus its summary.
type FinanceStateResponse struct {
	FinanceDocument
	Summary SummaryResponse `json:"summary"`
}

// AddIncomeRequest represents the request body for recording income.
type AddIncomeRequest struct {
	Amount      float64    `json:"amount" binding:"required"`
	Description string     `json:"description" binding:"max=255"`
	Source      string     `json:"source" binding:"max=100"`
	Date        *time.Time `json:"date"`
}

// EditIncomeRequest represents the request body for editing income.
type EditIncomeRequest = AddIncomeRequest

// SetAllocationRequest represents the request body for setting a
// subcategory amount.
type SetAllocationRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

// AddSubcategoryRequest represents the request body for adding a subcategory.
type AddSubcategoryRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Percentage float64 `json:"percentage" binding:"required,percentage"`
}

// RenameSubcategoryRequest represents the request body for renaming a subcategory.
type RenameSubcategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AddExpenseRequest represents the request body for recording an expense.
type AddExpenseRequest struct {
	Amount      float64    `json:"amount" binding:"required"`
	Description string     `json:"description" binding:"max=255"`
	Date        *time.Time `json:"date"`
}

// EditExpenseRequest represents the request body for editing an expense.
type EditExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"max=255"`
}

// TransferRequest represents the request body for moving allocation
// between categories.
type TransferRequest struct {
	FromCategoryID string  `json:"fromCategoryId" binding:"required"`
	ToCategoryID   string  `json:"toCategoryId" binding:"required"`
	Amount         float64 `json:"amount" binding:"required"`
}

// HistoryQuery holds the query parameters of the history endpoints.
type HistoryQuery struct {
	Period   string `form:"period"`
	Category string `form:"category"`
	Search   string `form:"search" binding:"max=100"`
}

// HistoryEntryResponse is one row of the history.
type HistoryEntryResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Source          string    `json:"source,omitempty"`
	SubcategoryID   string    `json:"subcategoryId,omitempty"`
	SubcategoryName string    `json:"subcategoryName,omitempty"`
	CategoryID      string    `json:"categoryId,omitempty"`
	CategoryName    string    `json:"categoryName,omitempty"`
}

// HistoryResponse is the filtered history with its totals.
type HistoryResponse struct {
	Entries  []HistoryEntryResponse `json:"entries"`
	Income   float64                `json:"income"`
	Expenses float64                `json:"expenses"`
	Net      float64                `json:"net"`
}

// ToFinanceStateResponse converts a use case output into the response body.
func ToFinanceStateResponse(out *finance.StateOutput) FinanceStateResponse {
	return FinanceStateResponse{
		FinanceDocument: ToFinanceDocument(out.State),
		Summary:         toSummaryResponse(out.Summary),
	}
}

// ToFinanceDocument converts the state into the document exchanged with the
// client. Figures keep full precision so a document read and written back is
// stored unchanged; only the derived progress values are rounded.
func ToFinanceDocument(state *entity.FinanceState) FinanceDocument {
	doc := FinanceDocument{
		Income:             state.Income,
		IncomeTransactions: make([]IncomeDocument, 0, len(state.IncomeTransactions)),
		Categories:         make([]CategoryDocument, 0, len(state.Categories)),
		EMIs:               make([]EMIDocument, 0, len(state.EMIs)),
		Debts:              make([]DebtDocument, 0, len(state.Debts)),
		Transactions:       toExpenseDocuments(state.Transactions),
	}
	for _, tx := range state.IncomeTransactions {
		doc.IncomeTransactions = append(doc.IncomeTransactions, IncomeDocument{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Description: tx.Description,
			Source:      tx.Source,
			Date:        tx.Date,
		})
	}
	for _, cat := range state.Categories {
		c := CategoryDocument{
			ID:             cat.ID,
			Name:           cat.Name,
			Percentage:     cat.Percentage,
			TotalAllocated: cat.TotalAllocated,
			TotalSpent:     cat.TotalSpent,
			TotalBalance:   cat.TotalBalance,
			Subcategories:  make([]SubcategoryDocument, 0, len(cat.Subcategories)),
		}
		for _, sub := range cat.Subcategories {
			c.Subcategories = append(c.Subcategories, SubcategoryDocument{
				ID:                  sub.ID,
				Name:                sub.Name,
				AllocatedAmount:     sub.AllocatedAmount,
				AllocatedPercentage: sub.AllocatedPercentage,
				SpentAmount:         sub.SpentAmount,
				Balance:             sub.Balance,
				Expenses:            toExpenseDocuments(sub.Expenses),
			})
		}
		doc.Categories = append(doc.Categories, c)
	}
	for _, emi := range state.EMIs {
		doc.EMIs = append(doc.EMIs, EMIDocument{
			ID:          emi.ID,
			Name:        emi.Name,
			Amount:      emi.Amount,
			TenureLeft:  emi.TenureLeft,
			TotalTenure: emi.TotalTenure,
			PaidCount:   emi.PaidCount,
			IsActive:    emi.IsActive,
			Progress:    Percent(emi.Progress()),
		})
	}
	for _, debt := range state.Debts {
		doc.Debts = append(doc.Debts, DebtDocument{
			ID:             debt.ID,
			Name:           debt.Name,
			PendingAmount:  debt.PendingAmount,
			MonthlyPayment: debt.MonthlyPayment,
			TotalMonths:    debt.TotalMonths,
			PaidAmount:     debt.PaidAmount,
			IsActive:       debt.IsActive,
			ReminderDate:   debt.ReminderDate,
			Progress:       Percent(debt.Progress()),
		})
	}
	return doc
}

// ToEntity converts a client document into a finance state, unrounded.
func (d FinanceDocument) ToEntity() *entity.FinanceState {
	state := &entity.FinanceState{
		Income:             d.Income,
		IncomeTransactions: make([]entity.IncomeTransaction, 0, len(d.IncomeTransactions)),
		Categories:         make([]entity.MainCategory, 0, len(d.Categories)),
		EMIs:               make([]entity.EMI, 0, len(d.EMIs)),
		Debts:              make([]entity.Debt, 0, len(d.Debts)),
		Transactions:       toExpenses(d.Transactions),
	}
	for _, tx := range d.IncomeTransactions {
		state.IncomeTransactions = append(state.IncomeTransactions, entity.IncomeTransaction{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Description: tx.Description,
			Source:      tx.Source,
			Date:        tx.Date,
		})
	}
	for _, cat := range d.Categories {
		c := entity.MainCategory{
			ID:             cat.ID,
			Name:           cat.Name,
			Percentage:     cat.Percentage,
			TotalAllocated: cat.TotalAllocated,
			TotalSpent:     cat.TotalSpent,
			TotalBalance:   cat.TotalBalance,
			Subcategories:  make([]entity.SubCategory, 0, len(cat.Subcategories)),
		}
		for _, sub := range cat.Subcategories {
			c.Subcategories = append(c.Subcategories, entity.SubCategory{
				ID:                  sub.ID,
				Name:                sub.Name,
				AllocatedAmount:     sub.AllocatedAmount,
				AllocatedPercentage: sub.AllocatedPercentage,
				SpentAmount:         sub.SpentAmount,
				Balance:             sub.Balance,
				Expenses:            toExpenses(sub.Expenses),
			})
		}
		state.Categories = append(state.Categories, c)
	}
	for _, emi := range d.EMIs {
		state.EMIs = append(state.EMIs, entity.EMI{
			ID:          emi.ID,
			Name:        emi.Name,
			Amount:      emi.Amount,
			TenureLeft:  emi.TenureLeft,
			TotalTenure: emi.TotalTenure,
			PaidCount:   emi.PaidCount,
			IsActive:    emi.IsActive,
		})
	}
	for _, debt := range d.Debts {
		state.Debts = append(state.Debts, entity.Debt{
			ID:             debt.ID,
			Name:           debt.Name,
			PendingAmount:  debt.PendingAmount,
			MonthlyPayment: debt.MonthlyPayment,
			TotalMonths:    debt.TotalMonths,
			PaidAmount:     debt.PaidAmount,
			IsActive:       debt.IsActive,
			ReminderDate:   debt.ReminderDate,
		})
	}
	return state
}

// ToHistoryResponse converts a history for display.
func ToHistoryResponse(history *budget.History) HistoryResponse {
	resp := HistoryResponse{
		Entries:  make([]HistoryEntryResponse, 0, len(history.Entries)),
		Income:   Money(history.Income),
		Expenses: Money(history.Expenses),
		Net:      Money(history.Net),
	}
	for _, e := range history.Entries {
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			ID:              e.ID,
			Type:            string(e.Type),
			Amount:          Money(e.Amount),
			Description:     e.Description,
			Date:            e.Date,
			Source:          e.Source,
			SubcategoryID:   e.SubcategoryID,
			SubcategoryName: e.SubcategoryName,
			CategoryID:      e.CategoryID,
			CategoryName:    e.CategoryName,
		})
	}
	return resp
}

func toSummaryResponse(s budget.Summary) SummaryResponse {
	return SummaryResponse{
		TotalAllocated:       Money(s.TotalAllocated),
		TotalSpent:           Money(s.TotalSpent),
		TotalBalance:         Money(s.TotalBalance),
		OverspentIDs:         s.OverspentIDs,
		MonthlyEMIOutgo:      Money(s.MonthlyEMIOutgo),
		TotalPendingDebt:     Money(s.TotalPendingDebt),
		DebtRemindersDueSoon: s.DebtRemindersDueSoon,
	}
}

func toExpenseDocuments(expenses []entity.Expense) []ExpenseDocument {
	out := make([]ExpenseDocument, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseDocument{
			ID:            e.ID,
			Amount:        e.Amount,
			Description:   e.Description,
			Date:          e.Date,
			SubcategoryID: e.SubcategoryID,
		})
	}
	return out
}

func toExpenses(docs []ExpenseDocument) []entity.Expense {
	out := make([]entity.Expense, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.Expense{
			ID:            d.ID,
			Amount:        d.Amount,
			Description:   d.Description,
			Date:          d.Date,
			SubcategoryID: d.SubcategoryID,
		})
	}
	return out
}
