package dto

import "time"

// AddEMIRequest represents the request body for adding an EMI.
type AddEMIRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Amount float64 `json:"amount" binding:"required"`
	Tenure int     `json:"tenure" binding:"required"`
}

// EditEMIRequest represents the request body for editing an EMI.
type EditEMIRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Amount      float64 `json:"amount" binding:"required"`
	TenureLeft  int     `json:"tenureLeft" binding:"gte=0"`
	TotalTenure int     `json:"totalTenure" binding:"required"`
}

// AddDebtRequest represents the request body for adding a debt.
type AddDebtRequest struct {
	Name           string     `json:"name" binding:"required,max=100"`
	PendingAmount  float64    `json:"pendingAmount" binding:"required"`
	MonthlyPayment float64    `json:"monthlyPayment" binding:"required"`
	ReminderDate   *time.Time `json:"reminderDate"`
}

// EditDebtRequest represents the request body for editing a debt.
type EditDebtRequest struct {
	Name           string     `json:"name" binding:"required,max=100"`
	PendingAmount  float64    `json:"pendingAmount"`
	MonthlyPayment float64    `json:"monthlyPayment" binding:"required"`
	ReminderDate   *time.Time `json:"reminderDate"`
}
