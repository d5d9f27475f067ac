// Package reminder finds debt reminders that are due and not yet sent.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// DueReminder is one debt whose owner should be reminded.
type DueReminder struct {
	User *entity.User
	Debt entity.Debt
}

// CollectDueRemindersUseCase scans stored finance documents for debts whose
// reminder falls within the next day. Each reminder is claimed in the ledger
// before it is returned, so it is handed out at most once across instances.
type CollectDueRemindersUseCase struct {
	financeRepo adapter.FinanceRepository
	userRepo    adapter.UserRepository
	ledger      adapter.ReminderLedger
}

// NewCollectDueRemindersUseCase creates a new CollectDueRemindersUseCase instance.
func NewCollectDueRemindersUseCase(
	financeRepo adapter.FinanceRepository,
	userRepo adapter.UserRepository,
	ledger adapter.ReminderLedger,
) *CollectDueRemindersUseCase {
	return &CollectDueRemindersUseCase{
		financeRepo: financeRepo,
		userRepo:    userRepo,
		ledger:      ledger,
	}
}

// Execute returns the reminders due at now.
func (uc *CollectDueRemindersUseCase) Execute(ctx context.Context, now time.Time) ([]DueReminder, error) {
	userIDs, err := uc.financeRepo.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list finance documents: %w", err)
	}

	var due []DueReminder
	for _, userID := range userIDs {
		logger := slog.With("user_id", userID)

		state, err := uc.financeRepo.Get(ctx, userID)
		if err != nil {
			logger.Error("Failed to read finance document", "error", err)
			continue
		}

		var pending []entity.Debt
		for _, debt := range state.Debts {
			if debt.ReminderDue(now) {
				pending = append(pending, debt)
			}
		}
		if len(pending) == 0 {
			continue
		}

		// Resolve the recipient before claiming so a lookup failure leaves
		// the reminders for the next pass.
		user, err := uc.userRepo.FindByID(ctx, userID)
		if err != nil {
			logger.Error("Failed to find reminder recipient", "error", err)
			continue
		}

		for _, debt := range pending {
			first, err := uc.ledger.MarkSent(ctx, debt.ID, *debt.ReminderDate)
			if err != nil {
				logger.Error("Failed to claim debt reminder", "debt_id", debt.ID, "error", err)
				continue
			}
			if first {
				due = append(due, DueReminder{User: user, Debt: debt})
			}
		}
	}
	return due, nil
}
