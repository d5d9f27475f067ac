package adapter

import "github.com/nivi-finance/backend/internal/domain/budget"

// HistoryExporter renders a transaction history as a downloadable document.
type HistoryExporter interface {
	// Export returns the encoded document.
	Export(history budget.History) ([]byte, error)

	// ContentType is the MIME type of the encoded document.
	ContentType() string

	// Extension is the file extension, dot included.
	Extension() string
}
