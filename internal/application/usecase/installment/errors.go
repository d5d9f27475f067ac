// Package installment contains the EMI and debt use cases.
package installment

import (
	"fmt"

	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

func installmentNotFound(kind, id string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeInstallmentNotFound,
		fmt.Sprintf("%s %q not found", kind, id),
		domainerror.ErrInstallmentNotFound,
	)
}

func installmentInactive(kind, id string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeInstallmentInactive,
		fmt.Sprintf("%s %q is already paid off", kind, id),
		domainerror.ErrInstallmentInactive,
	)
}

func invalidTenure() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeInvalidTenure,
		"tenure must be greater than zero",
		domainerror.ErrInvalidTenure,
	)
}
