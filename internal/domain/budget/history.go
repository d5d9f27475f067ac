package budget

import (
	"sort"
	"strings"
	"time"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// EntryType distinguishes expense and income history entries.
type EntryType string

const (
	EntryExpense EntryType = "expense"
	EntryIncome  EntryType = "income"
)

// IncomeCategory is the pseudo category id income entries are listed under.
const IncomeCategory = "income"

// Period restricts history to a recent window.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// HistoryEntry is one row of the merged expense and income history.
type HistoryEntry struct {
	ID              string
	Type            EntryType
	Amount          float64
	Description     string
	Date            time.Time
	Source          string
	SubcategoryID   string
	SubcategoryName string
	CategoryID      string
	CategoryName    string
}

// HistoryFilter narrows the history. Zero values match everything.
type HistoryFilter struct {
	Period     Period
	CategoryID string
	Search     string
}

// History holds filtered entries, newest first, and their net total.
type History struct {
	Entries  []HistoryEntry
	Income   float64
	Expenses float64
	Net      float64
}

// BuildHistory merges the flat expense log with the income transactions.
func BuildHistory(state *entity.FinanceState, filter HistoryFilter, now time.Time) History {
	entries := make([]HistoryEntry, 0, len(state.Transactions)+len(state.IncomeTransactions))
	for _, tx := range state.Transactions {
		entry := HistoryEntry{
			ID:            tx.ID,
			Type:          EntryExpense,
			Amount:        tx.Amount,
			Description:   tx.Description,
			Date:          tx.Date,
			SubcategoryID: tx.SubcategoryID,
		}
		if cat, sub := state.Subcategory(tx.SubcategoryID); sub != nil {
			entry.SubcategoryName = sub.Name
			entry.CategoryID = cat.ID
			entry.CategoryName = cat.Name
		}
		entries = append(entries, entry)
	}
	for _, tx := range state.IncomeTransactions {
		entries = append(entries, HistoryEntry{
			ID:              tx.ID,
			Type:            EntryIncome,
			Amount:          tx.Amount,
			Description:     tx.Description,
			Date:            tx.Date,
			Source:          tx.Source,
			SubcategoryName: "Income",
			CategoryID:      IncomeCategory,
			CategoryName:    "Income",
		})
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := History{Entries: make([]HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(e.SubcategoryName), search) {
			continue
		}
		if !inPeriod(e.Date, filter.Period, now) {
			continue
		}
		out.Entries = append(out.Entries, e)
		if e.Type == EntryIncome {
			out.Income += e.Amount
		} else {
			out.Expenses += e.Amount
		}
	}
	out.Net = out.Income - out.Expenses

	sort.SliceStable(out.Entries, func(i, j int) bool {
		return out.Entries[i].Date.After(out.Entries[j].Date)
	})
	return out
}

func inPeriod(date time.Time, period Period, now time.Time) bool {
	switch period {
	case PeriodToday:
		y1, m1, d1 := date.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case PeriodWeek:
		return !date.Before(now.Add(-7 * 24 * time.Hour))
	case PeriodMonth:
		return !date.Before(now.Add(-30 * 24 * time.Hour))
	default:
		return true
	}
}

// Summary aggregates the figures shown on the budget overview.
type Summary struct {
	TotalAllocated       float64
	TotalSpent           float64
	TotalBalance         float64
	OverspentIDs         []string
	MonthlyEMIOutgo      float64
	TotalPendingDebt     float64
	DebtRemindersDueSoon []string
}

// Summarize computes the overview figures of state at now.
func Summarize(state *entity.FinanceState, now time.Time) Summary {
	s := Summary{OverspentIDs: []string{}, DebtRemindersDueSoon: []string{}}
	for _, cat := range state.Categories {
		s.TotalAllocated += cat.TotalAllocated
		s.TotalSpent += cat.TotalSpent
		for _, sub := range cat.Subcategories {
			if sub.IsOverspent() {
				s.OverspentIDs = append(s.OverspentIDs, sub.ID)
			}
		}
	}
	s.TotalBalance = s.TotalAllocated - s.TotalSpent
	for _, emi := range state.EMIs {
		if emi.IsActive {
			s.MonthlyEMIOutgo += emi.Amount
		}
	}
	for _, debt := range state.Debts {
		if debt.IsActive {
			s.TotalPendingDebt += debt.PendingAmount
		}
		if debt.ReminderDue(now) {
			s.DebtRemindersDueSoon = append(s.DebtRemindersDueSoon, debt.ID)
		}
	}
	return s
}
