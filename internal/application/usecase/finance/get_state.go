package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GetStateInput represents the input for reading a user's finance state.
type GetStateInput struct {
	UserID uuid.UUID
}

// GetStateUseCase loads a user's state, bootstrapping it on first access.
type GetStateUseCase struct {
	store StateStore
}

// NewGetStateUseCase creates a new GetStateUseCase instance.
func NewGetStateUseCase(store StateStore) *GetStateUseCase {
	return &GetStateUseCase{store: store}
}

// Execute returns the state with its summary.
func (uc *GetStateUseCase) Execute(ctx context.Context, input GetStateInput) (*StateOutput, error) {
	state, err := uc.store.Load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return NewStateOutput(state, time.Now()), nil
}
