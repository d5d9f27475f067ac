// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// Fixed top-level category identifiers.
const (
	CategoryNeeds    = "needs"
	CategoryWants    = "wants"
	CategoryGoals    = "goals"
	CategoryUnwanted = "unwanted"
)

// DefaultSubcategoryName is the name of the subcategory synthesized when a
// category loses its last subcategory.
const DefaultSubcategoryName = "General"

// Expense is a single spend recorded against a subcategory.
type Expense struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	SubcategoryID string    `json:"subcategoryId"`
}

// NewExpense creates an Expense owned by the given subcategory.
func NewExpense(amount float64, description string, date time.Time, subcategoryID string) (*Expense, error) {
	if amount <= 0 {
		return nil, domainerror.ErrInvalidAmount
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return &Expense{
		ID:            uuid.NewString(),
		Amount:        amount,
		Description:   strings.TrimSpace(description),
		Date:          date,
		SubcategoryID: subcategoryID,
	}, nil
}

// SubCategory is a user-adjustable budget line inside a MainCategory.
type SubCategory struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	AllocatedAmount     float64   `json:"allocatedAmount"`
	AllocatedPercentage float64   `json:"allocatedPercentage"`
	SpentAmount         float64   `json:"spentAmount"`
	Balance             float64   `json:"balance"`
	Expenses            []Expense `json:"expenses"`
}

// NewSubCategory creates an empty SubCategory holding percentage of its parent.
// Amounts are left at zero; the caller distributes the parent allocation.
func NewSubCategory(name string, percentage float64) (*SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerror.ErrEmptyName
	}
	if percentage < 0 || percentage > 100 {
		return nil, domainerror.ErrInvalidPercentage
	}
	return &SubCategory{
		ID:                  uuid.NewString(),
		Name:                name,
		AllocatedPercentage: percentage,
		Expenses:            []Expense{},
	}, nil
}

// IsOverspent reports whether more was spent than allocated.
func (s *SubCategory) IsOverspent() bool {
	return s.Balance < 0
}

// MainCategory is one of the four fixed budget buckets.
type MainCategory struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Percentage     float64       `json:"percentage"`
	TotalAllocated float64       `json:"totalAllocated"`
	TotalSpent     float64       `json:"totalSpent"`
	TotalBalance   float64       `json:"totalBalance"`
	Subcategories  []SubCategory `json:"subcategories"`
}

// SubcategoryIndex returns the position of the subcategory with id, or -1.
func (c *MainCategory) SubcategoryIndex(id string) int {
	for i := range c.Subcategories {
		if c.Subcategories[i].ID == id {
			return i
		}
	}
	return -1
}

// SubcategoryByName returns the first subcategory called name, or nil.
func (c *MainCategory) SubcategoryByName(name string) *SubCategory {
	for i := range c.Subcategories {
		if c.Subcategories[i].Name == name {
			return &c.Subcategories[i]
		}
	}
	return nil
}

// PercentageSum returns the sum of the subcategory percentages.
func (c *MainCategory) PercentageSum() float64 {
	var sum float64
	for _, sub := range c.Subcategories {
		sum += sub.AllocatedPercentage
	}
	return sum
}

// IncomeTransaction is one recorded income. The sum of all of them is the
// current income.
type IncomeTransaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Date        time.Time `json:"date"`
}

// NewIncomeTransaction creates an IncomeTransaction.
func NewIncomeTransaction(amount float64, description, source string, date time.Time) (*IncomeTransaction, error) {
	if amount <= 0 {
		return nil, domainerror.ErrInvalidAmount
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return &IncomeTransaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Source:      strings.TrimSpace(source),
		Date:        date,
	}, nil
}

// FinanceState is the aggregate root persisted as one document per user.
type FinanceState struct {
	Income             float64             `json:"income"`
	IncomeTransactions []IncomeTransaction `json:"incomeTransactions"`
	Categories         []MainCategory      `json:"categories"`
	EMIs               []EMI               `json:"emis"`
	Debts              []Debt              `json:"debts"`
	Transactions       []Expense           `json:"transactions"`
}

// NewFinanceState returns the empty state created on first access.
func NewFinanceState() *FinanceState {
	return &FinanceState{
		IncomeTransactions: []IncomeTransaction{},
		Categories:         []MainCategory{},
		EMIs:               []EMI{},
		Debts:              []Debt{},
		Transactions:       []Expense{},
	}
}

// Category returns the category with id, or nil.
func (s *FinanceState) Category(id string) *MainCategory {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// Subcategory locates a subcategory anywhere in the tree.
func (s *FinanceState) Subcategory(id string) (*MainCategory, *SubCategory) {
	for i := range s.Categories {
		cat := &s.Categories[i]
		if idx := cat.SubcategoryIndex(id); idx >= 0 {
			return cat, &cat.Subcategories[idx]
		}
	}
	return nil, nil
}

// TransactionIndex returns the position of an expense in the flat log, or -1.
func (s *FinanceState) TransactionIndex(id string) int {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// IncomeIndex returns the position of an income transaction, or -1.
func (s *FinanceState) IncomeIndex(id string) int {
	for i := range s.IncomeTransactions {
		if s.IncomeTransactions[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so a snapshot can be handed to another goroutine.
func (s *FinanceState) Clone() *FinanceState {
	out := &FinanceState{
		Income:             s.Income,
		IncomeTransactions: append([]IncomeTransaction{}, s.IncomeTransactions...),
		Categories:         make([]MainCategory, len(s.Categories)),
		EMIs:               append([]EMI{}, s.EMIs...),
		Debts:              make([]Debt, len(s.Debts)),
		Transactions:       append([]Expense{}, s.Transactions...),
	}
	for i, cat := range s.Categories {
		subs := make([]SubCategory, len(cat.Subcategories))
		for j, sub := range cat.Subcategories {
			sub.Expenses = append([]Expense{}, sub.Expenses...)
			subs[j] = sub
		}
		cat.Subcategories = subs
		out.Categories[i] = cat
	}
	for i, debt := range s.Debts {
		if debt.ReminderDate != nil {
			d := *debt.ReminderDate
			debt.ReminderDate = &d
		}
		out.Debts[i] = debt
	}
	return out
}

// EnsureSlices replaces nil slices with empty ones so the document always
// serializes arrays, never null.
func (s *FinanceState) EnsureSlices() {
	if s.IncomeTransactions == nil {
		s.IncomeTransactions = []IncomeTransaction{}
	}
	if s.Categories == nil {
		s.Categories = []MainCategory{}
	}
	if s.EMIs == nil {
		s.EMIs = []EMI{}
	}
	if s.Debts == nil {
		s.Debts = []Debt{}
	}
	if s.Transactions == nil {
		s.Transactions = []Expense{}
	}
	for i := range s.Categories {
		if s.Categories[i].Subcategories == nil {
			s.Categories[i].Subcategories = []SubCategory{}
		}
		for j := range s.Categories[i].Subcategories {
			if s.Categories[i].Subcategories[j].Expenses == nil {
				s.Categories[i].Subcategories[j].Expenses = []Expense{}
			}
		}
	}
}
