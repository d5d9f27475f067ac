// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// FinanceRepository stores one finance document per user.
type FinanceRepository interface {
	// Get returns the stored document of a user. A user without a document
	// gets an empty state, never an error.
	Get(ctx context.Context, userID uuid.UUID) (*entity.FinanceState, error)

	// Put stores the document verbatim, replacing whatever was there.
	Put(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) error

	// ListUserIDs returns every user that has a stored document.
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
