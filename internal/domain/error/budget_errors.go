// Package error defines domain-specific errors for the personal finance application.
package error

import "errors"

// Budget domain errors.
var (
	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidPercentage is returned when a percentage is outside (0, 100].
	ErrInvalidPercentage = errors.New("percentage must be greater than 0 and at most 100")

	// ErrEmptyName is returned when a required name is blank.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrInvalidTenure is returned when an EMI tenure is not positive.
	ErrInvalidTenure = errors.New("tenure must be greater than zero")

	// ErrCategoryNotFound is returned when a category id does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrSubcategoryNotFound is returned when a subcategory id does not exist.
	ErrSubcategoryNotFound = errors.New("subcategory not found")

	// ErrTransactionNotFound is returned when an expense or income id does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInstallmentNotFound is returned when an EMI or debt id does not exist.
	ErrInstallmentNotFound = errors.New("installment not found")

	// ErrInstallmentInactive is returned when paying an EMI or debt that is already cleared.
	ErrInstallmentInactive = errors.New("installment is no longer active")

	// ErrNoAllocation is returned when an allocation edit targets a category with nothing allocated.
	ErrNoAllocation = errors.New("category has no allocation")

	// ErrAllocationExceeded is returned when an amount is larger than the category allocation.
	ErrAllocationExceeded = errors.New("amount exceeds category allocation")

	// ErrSoleSubcategory is returned when editing the allocation of a category's only subcategory.
	ErrSoleSubcategory = errors.New("the only subcategory always holds the full allocation")

	// ErrSameCategory is returned when a transfer names the same category twice.
	ErrSameCategory = errors.New("cannot transfer within the same category")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BUD-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount       BudgetErrorCode = "BUD-010001"
	ErrCodeInvalidPercentage   BudgetErrorCode = "BUD-010002"
	ErrCodeEmptyName           BudgetErrorCode = "BUD-010003"
	ErrCodeInvalidTenure       BudgetErrorCode = "BUD-010004"
	ErrCodeMissingBudgetFields BudgetErrorCode = "BUD-010005"
	ErrCodeInvalidState        BudgetErrorCode = "BUD-010006"

	// Not-found errors (02XXXX)
	ErrCodeCategoryNotFound    BudgetErrorCode = "BUD-020001"
	ErrCodeSubcategoryNotFound BudgetErrorCode = "BUD-020002"
	ErrCodeTransactionNotFound BudgetErrorCode = "BUD-020003"
	ErrCodeInstallmentNotFound BudgetErrorCode = "BUD-020004"

	// Allocation rule errors (03XXXX)
	ErrCodeNoAllocation        BudgetErrorCode = "BUD-030001"
	ErrCodeAllocationExceeded  BudgetErrorCode = "BUD-030002"
	ErrCodeSoleSubcategory     BudgetErrorCode = "BUD-030003"
	ErrCodeSameCategory        BudgetErrorCode = "BUD-030004"
	ErrCodeInstallmentInactive BudgetErrorCode = "BUD-030005"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

var sentinelCodes = map[error]BudgetErrorCode{
	ErrInvalidAmount:       ErrCodeInvalidAmount,
	ErrInvalidPercentage:   ErrCodeInvalidPercentage,
	ErrEmptyName:           ErrCodeEmptyName,
	ErrInvalidTenure:       ErrCodeInvalidTenure,
	ErrCategoryNotFound:    ErrCodeCategoryNotFound,
	ErrSubcategoryNotFound: ErrCodeSubcategoryNotFound,
	ErrTransactionNotFound: ErrCodeTransactionNotFound,
	ErrInstallmentNotFound: ErrCodeInstallmentNotFound,
	ErrInstallmentInactive: ErrCodeInstallmentInactive,
	ErrNoAllocation:        ErrCodeNoAllocation,
	ErrAllocationExceeded:  ErrCodeAllocationExceeded,
	ErrSoleSubcategory:     ErrCodeSoleSubcategory,
	ErrSameCategory:        ErrCodeSameCategory,
}

// AsBudgetError wraps a budget sentinel into a coded BudgetError.
// Errors that are not budget sentinels are returned unchanged.
func AsBudgetError(err error) error {
	if err == nil {
		return nil
	}
	var budgetErr *BudgetError
	if errors.As(err, &budgetErr) {
		return err
	}
	for sentinel, code := range sentinelCodes {
		if errors.Is(err, sentinel) {
			return NewBudgetError(code, sentinel.Error(), err)
		}
	}
	return err
}
