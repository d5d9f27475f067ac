package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/budget"
)

// ExportHistoryOutput represents a rendered history download.
type ExportHistoryOutput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportHistoryUseCase renders the filtered history as a document.
type ExportHistoryUseCase struct {
	store    StateStore
	exporter adapter.HistoryExporter
	now      func() time.Time
}

// NewExportHistoryUseCase creates a new ExportHistoryUseCase instance.
func NewExportHistoryUseCase(store StateStore, exporter adapter.HistoryExporter) *ExportHistoryUseCase {
	return &ExportHistoryUseCase{store: store, exporter: exporter, now: time.Now}
}

// Execute performs the export. It takes the same filters as history listing.
func (uc *ExportHistoryUseCase) Execute(ctx context.Context, input GetHistoryInput) (*ExportHistoryOutput, error) {
	filter, err := historyFilter(input)
	if err != nil {
		return nil, err
	}
	state, err := uc.store.Load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	content, err := uc.exporter.Export(budget.BuildHistory(state, filter, now))
	if err != nil {
		return nil, fmt.Errorf("failed to export history: %w", err)
	}
	return &ExportHistoryOutput{
		Filename:    "transactions-" + now.Format("2006-01-02") + uc.exporter.Extension(),
		ContentType: uc.exporter.ContentType(),
		Content:     content,
	}, nil
}
