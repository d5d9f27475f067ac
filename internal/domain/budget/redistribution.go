package budget

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DriftTolerance is how far the subcategory percentages of a category may
// stray from 100 before Renormalize corrects them.
const DriftTolerance = 1e-6

// noPin marks that no subcategory is protected from renormalization.
const noPin = -1

// SetSubcategoryAllocation pins one subcategory to newAmount and shares the
// remaining percentage among its siblings in proportion to their current
// percentages (evenly when those sum to zero). It returns false and leaves the
// category untouched when the subcategory does not exist, when it has no
// siblings, or when the category has nothing allocated to take a share of.
func SetSubcategoryAllocation(cat *entity.MainCategory, subcategoryID string, newAmount float64) bool {
	idx := cat.SubcategoryIndex(subcategoryID)
	if idx < 0 || len(cat.Subcategories) < 2 || cat.TotalAllocated == 0 {
		return false
	}

	newPercentage := newAmount / cat.TotalAllocated * 100
	cat.Subcategories[idx].AllocatedPercentage = newPercentage
	shareOut(cat.Subcategories, idx, 100-newPercentage)

	settle(cat, idx)
	return true
}

// AddSubcategory appends sub with its requested percentage and scales the
// existing siblings down so the category still sums to 100. A category
// without subcategories gives the new one the whole allocation.
func AddSubcategory(cat *entity.MainCategory, sub entity.SubCategory) {
	if len(cat.Subcategories) == 0 {
		sub.AllocatedPercentage = 100
	} else {
		shareOut(cat.Subcategories, noPin, 100-sub.AllocatedPercentage)
	}
	if sub.Expenses == nil {
		sub.Expenses = []entity.Expense{}
	}
	cat.Subcategories = append(cat.Subcategories, sub)

	settle(cat, len(cat.Subcategories)-1)
}

// DeleteSubcategory removes a subcategory with its expenses, including their
// copies in the flat transaction log, and hands its percentage to the
// remaining siblings proportionally. Removing the last subcategory leaves a
// fresh "General" subcategory holding 100%. It returns false when either id
// is unknown.
func DeleteSubcategory(state *entity.FinanceState, categoryID, subcategoryID string) bool {
	cat := state.Category(categoryID)
	if cat == nil {
		return false
	}
	idx := cat.SubcategoryIndex(subcategoryID)
	if idx < 0 {
		return false
	}

	remaining := make([]entity.SubCategory, 0, len(cat.Subcategories)-1)
	remaining = append(remaining, cat.Subcategories[:idx]...)
	remaining = append(remaining, cat.Subcategories[idx+1:]...)

	if len(remaining) == 0 {
		general, _ := entity.NewSubCategory(entity.DefaultSubcategoryName, 100)
		remaining = append(remaining, *general)
	} else {
		shareOut(remaining, noPin, 100)
	}
	cat.Subcategories = remaining
	settle(cat, noPin)

	kept := state.Transactions[:0]
	for _, tx := range state.Transactions {
		if tx.SubcategoryID != subcategoryID {
			kept = append(kept, tx)
		}
	}
	state.Transactions = kept
	return true
}

// RenameSubcategory changes a subcategory's display name.
func RenameSubcategory(cat *entity.MainCategory, subcategoryID, name string) bool {
	idx := cat.SubcategoryIndex(subcategoryID)
	if idx < 0 {
		return false
	}
	cat.Subcategories[idx].Name = name
	return true
}

// Renormalize forces the subcategory percentages of cat back to a sum of 100
// when they drifted by more than DriftTolerance. Unpinned subcategories are
// rescaled proportionally and the decimal residual lands on the largest of
// them. pinned may be -1.
func Renormalize(cat *entity.MainCategory, pinned int) bool {
	subs := cat.Subcategories
	if len(subs) == 0 || math.Abs(cat.PercentageSum()-100) <= DriftTolerance {
		return false
	}
	if pinned >= 0 && len(subs) == 1 {
		pinned = noPin
	}

	target := 100.0
	if pinned >= 0 {
		target -= subs[pinned].AllocatedPercentage
	}
	shareOut(subs, pinned, target)

	sum := decimal.Zero
	largest := noPin
	for i, sub := range subs {
		sum = sum.Add(decimal.NewFromFloat(sub.AllocatedPercentage))
		if i != pinned && (largest == noPin || sub.AllocatedPercentage > subs[largest].AllocatedPercentage) {
			largest = i
		}
	}
	residual := decimal.NewFromInt(100).Sub(sum)
	if largest != noPin && !residual.IsZero() {
		subs[largest].AllocatedPercentage = decimal.NewFromFloat(subs[largest].AllocatedPercentage).
			Add(residual).
			InexactFloat64()
	}
	return true
}

// NormalizeState renormalizes every category whose percentages drifted and
// rederives its amounts. Categories already summing to 100 are left as they are.
func NormalizeState(state *entity.FinanceState) {
	for i := range state.Categories {
		cat := &state.Categories[i]
		if len(cat.Subcategories) == 0 || math.Abs(cat.PercentageSum()-100) <= DriftTolerance {
			continue
		}
		settle(cat, noPin)
	}
}

// shareOut rescales every subcategory except skip so their percentages sum to
// target, keeping their relative weights. When their weights sum to zero the
// target is split evenly.
func shareOut(subs []entity.SubCategory, skip int, target float64) {
	var sum float64
	n := 0
	for i := range subs {
		if i == skip {
			continue
		}
		sum += subs[i].AllocatedPercentage
		n++
	}
	if n == 0 {
		return
	}
	for i := range subs {
		if i == skip {
			continue
		}
		if sum > 0 {
			subs[i].AllocatedPercentage = subs[i].AllocatedPercentage / sum * target
		} else {
			subs[i].AllocatedPercentage = target / float64(n)
		}
	}
}

// settle renormalizes and then rederives every amount of cat from its percentages.
func settle(cat *entity.MainCategory, pinned int) {
	Renormalize(cat, pinned)
	cat.Subcategories = DistributeAcrossSubcategories(cat.TotalAllocated, cat.Subcategories)
	recomputeTotals(cat)
}
