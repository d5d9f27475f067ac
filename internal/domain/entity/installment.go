// Package entity defines the core business entities for the domain layer.
package entity

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/nivi-finance/backend/internal/domain/error"
)

// EMI is a fixed monthly loan installment tracked until tenureLeft reaches 0.
type EMI struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	TenureLeft  int     `json:"tenureLeft"`
	TotalTenure int     `json:"totalTenure"`
	PaidCount   int     `json:"paidCount"`
	IsActive    bool    `json:"isActive"`
}

// NewEMI creates an EMI with tenure installments remaining.
func NewEMI(name string, amount float64, tenure int) (*EMI, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerror.ErrEmptyName
	}
	if amount <= 0 {
		return nil, domainerror.ErrInvalidAmount
	}
	if tenure <= 0 {
		return nil, domainerror.ErrInvalidTenure
	}
	return &EMI{
		ID:          uuid.NewString(),
		Name:        name,
		Amount:      amount,
		TenureLeft:  tenure,
		TotalTenure: tenure,
		IsActive:    true,
	}, nil
}

// Progress returns the share of installments paid, in percent.
func (e *EMI) Progress() float64 {
	if e.TotalTenure <= 0 {
		return 0
	}
	return float64(e.TotalTenure-e.TenureLeft) / float64(e.TotalTenure) * 100
}

// Outstanding is the amount still to be paid.
func (e *EMI) Outstanding() float64 {
	return e.Amount * float64(e.TenureLeft)
}

// Debt is a pending amount paid down through monthly payments.
type Debt struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	PendingAmount  float64    `json:"pendingAmount"`
	MonthlyPayment float64    `json:"monthlyPayment"`
	TotalMonths    int        `json:"totalMonths"`
	PaidAmount     float64    `json:"paidAmount"`
	IsActive       bool       `json:"isActive"`
	ReminderDate   *time.Time `json:"reminderDate,omitempty"`
}

// NewDebt creates an active Debt. reminderDate is optional.
func NewDebt(name string, pendingAmount, monthlyPayment float64, reminderDate *time.Time) (*Debt, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerror.ErrEmptyName
	}
	if pendingAmount <= 0 || monthlyPayment <= 0 {
		return nil, domainerror.ErrInvalidAmount
	}
	return &Debt{
		ID:             uuid.NewString(),
		Name:           name,
		PendingAmount:  pendingAmount,
		MonthlyPayment: monthlyPayment,
		TotalMonths:    DebtTimeline(pendingAmount, monthlyPayment),
		IsActive:       true,
		ReminderDate:   reminderDate,
	}, nil
}

// DebtTimeline returns the number of monthly payments needed to clear pending.
func DebtTimeline(pending, monthly float64) int {
	if monthly <= 0 {
		return 0
	}
	return int(math.Ceil(pending / monthly))
}

// Progress returns the share of the original debt already paid, in percent.
func (d *Debt) Progress() float64 {
	total := d.PaidAmount + d.PendingAmount
	if total <= 0 {
		return 0
	}
	return d.PaidAmount / total * 100
}

// ReminderDue reports whether the reminder falls within the next day.
func (d *Debt) ReminderDue(now time.Time) bool {
	if !d.IsActive || d.ReminderDate == nil {
		return false
	}
	days := math.Ceil(d.ReminderDate.Sub(now).Hours() / 24)
	return days >= 0 && days <= 1
}
