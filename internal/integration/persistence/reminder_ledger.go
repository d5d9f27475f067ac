package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nivi-finance/backend/internal/application/adapter"
)

const (
	reminderPrefix = "reminder:debt:"
	// reminderRetention outlives the one-day reminder window.
	reminderRetention = 72 * time.Hour
)

// reminderLedger records sent debt reminders in redis with SETNX.
type reminderLedger struct {
	client *redis.Client
}

// NewReminderLedger creates a new redis backed reminder ledger.
func NewReminderLedger(client *redis.Client) adapter.ReminderLedger {
	return &reminderLedger{
		client: client,
	}
}

// MarkSent claims the reminder of debtID due on the given day.
func (l *reminderLedger) MarkSent(ctx context.Context, debtID string, due time.Time) (bool, error) {
	key := reminderPrefix + debtID + ":" + due.UTC().Format(time.DateOnly)
	return l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), reminderRetention).Result()
}
