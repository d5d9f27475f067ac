package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/domain/entity"
)

// FinanceDocumentModel represents the finance_documents table. The whole
// finance state of a user is one JSON document.
type FinanceDocumentModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Document  string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the FinanceDocumentModel.
func (FinanceDocumentModel) TableName() string {
	return "finance_documents"
}

// ToFinanceState decodes the stored document.
func (m *FinanceDocumentModel) ToFinanceState() (*entity.FinanceState, error) {
	state := entity.NewFinanceState()
	if err := json.Unmarshal([]byte(m.Document), state); err != nil {
		return nil, fmt.Errorf("failed to decode finance document: %w", err)
	}
	state.EnsureSlices()
	return state, nil
}

// NewFinanceDocumentModel encodes state as the document of userID.
func NewFinanceDocumentModel(userID uuid.UUID, state *entity.FinanceState) (*FinanceDocumentModel, error) {
	doc, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode finance document: %w", err)
	}
	return &FinanceDocumentModel{
		UserID:    userID,
		Document:  string(doc),
		UpdatedAt: time.Now().UTC(),
	}, nil
}
