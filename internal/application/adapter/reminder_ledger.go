package adapter

import (
	"context"
	"time"
)

// ReminderLedger remembers which debt reminders were already sent.
type ReminderLedger interface {
	// MarkSent records the reminder and reports whether this call was the
	// first to do so.
	MarkSent(ctx context.Context, debtID string, due time.Time) (bool, error)
}
