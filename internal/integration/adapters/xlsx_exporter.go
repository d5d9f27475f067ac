package adapters

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/budget"
)

const (
	expensesSheet = "Expenses"
	incomeSheet   = "Income"
	xlsxDateFmt   = "2006-01-02"
)

var (
	expenseHeader = []interface{}{"Date", "Category", "Subcategory", "Description", "Amount"}
	incomeHeader  = []interface{}{"Date", "Source", "Description", "Amount"}
)

// xlsxExporter writes history as an Excel workbook with one sheet for
// expenses and one for income.
type xlsxExporter struct{}

// NewXLSXExporter creates a new Excel history exporter.
func NewXLSXExporter() adapter.HistoryExporter {
	return xlsxExporter{}
}

// ContentType returns the workbook MIME type.
func (xlsxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns ".xlsx".
func (xlsxExporter) Extension() string {
	return ".xlsx"
}

// Export renders history. Rows keep the history order, newest first, and
// each sheet ends with a total row.
func (xlsxExporter) Export(history budget.History) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(incomeSheet); err != nil {
		return nil, err
	}

	var expenses, income [][]interface{}
	for _, entry := range history.Entries {
		date := entry.Date.Format(xlsxDateFmt)
		switch entry.Type {
		case budget.EntryExpense:
			expenses = append(expenses, []interface{}{date, entry.CategoryName, entry.SubcategoryName, entry.Description, entry.Amount})
		case budget.EntryIncome:
			income = append(income, []interface{}{date, entry.Source, entry.Description, entry.Amount})
		}
	}

	if err := writeSheet(f, expensesSheet, expenseHeader, expenses, history.Expenses); err != nil {
		return nil, err
	}
	if err := writeSheet(f, incomeSheet, incomeHeader, income, history.Income); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, total float64) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	totalRow := make([]interface{}, len(header))
	totalRow[0] = "Total"
	totalRow[len(header)-1] = total
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &totalRow)
}
