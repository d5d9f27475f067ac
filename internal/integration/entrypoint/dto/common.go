// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"math"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Money rounds an amount to cents for display. Non-finite values become 0.
func Money(v float64) float64 {
	return round(v, 2)
}

// Percent rounds a percentage to four decimal places for display.
// Non-finite values become 0.
func Percent(v float64) float64 {
	return round(v, 4)
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
