package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/entity"
	"github.com/nivi-finance/backend/internal/integration/persistence/model"
)

// financeRepository implements the adapter.FinanceRepository interface.
type financeRepository struct {
	db *gorm.DB
}

// NewFinanceRepository creates a new finance document repository instance.
func NewFinanceRepository(db *gorm.DB) adapter.FinanceRepository {
	return &financeRepository{
		db: db,
	}
}

// Get retrieves the finance document of a user. A missing document yields an
// empty state.
func (r *financeRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.FinanceState, error) {
	var doc model.FinanceDocumentModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return entity.NewFinanceState(), nil
		}
		return nil, fmt.Errorf("failed to get finance document: %w", result.Error)
	}
	return doc.ToFinanceState()
}

// Put inserts or overwrites the finance document of a user.
func (r *financeRepository) Put(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) error {
	doc, err := model.NewFinanceDocumentModel(userID, state)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(doc)
	if result.Error != nil {
		return fmt.Errorf("failed to put finance document: %w", result.Error)
	}
	return nil
}

// ListUserIDs returns the owners of all stored documents.
func (r *financeRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := r.db.WithContext(ctx).
		Model(&model.FinanceDocumentModel{}).
		Order("user_id").
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list finance documents: %w", result.Error)
	}
	return ids, nil
}
