// internal/core/services/export.go
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// Exporter writes the sale history and the aggregate report to an xlsx
// workbook.
type Exporter struct {
	sales  ports.SaleRepository
	logger *slog.Logger
}

// NewExporter creates a new export service.
func NewExporter(sales ports.SaleRepository, logger *slog.Logger) *Exporter {
	return &Exporter{
		sales:  sales,
		logger: logger.With(slog.String("service", "export")),
	}
}

// Write generates the workbook into w: a "Sales" sheet with one row per
// sale line and a "Summary" sheet with the derived report.
func (e *Exporter) Write(ctx context.Context, w io.Writer) error {
	history, err := e.sales.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sale history: %w", err)
	}

	file := xlsx.NewFile()

	if err := e.addSalesSheet(file, history); err != nil {
		return err
	}
	if err := e.addSummarySheet(file, domain.Summarize(history)); err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "exported sale history",
		slog.Int("sales", len(history)))

	return nil
}

func (e *Exporter) addSalesSheet(file *xlsx.File, history []domain.Sale) error {
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return fmt.Errorf("failed to add sales sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range []string{
		"Sale ID", "Date", "Client", "Product", "Qty", "Unit Price", "Subtotal", "Sale Total",
	} {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, sale := range history {
		for _, item := range sale.Items {
			row := sheet.AddRow()
			for _, value := range []string{
				sale.ID,
				sale.Date.Format("2006-01-02 15:04:05"),
				sale.ClientName,
				item.Name,
				strconv.Itoa(item.Qty),
				item.Price.StringFixed(2),
				item.Subtotal.StringFixed(2),
				sale.Total.StringFixed(2),
			} {
				row.AddCell().Value = value
			}
		}
	}

	return nil
}

func (e *Exporter) addSummarySheet(file *xlsx.File, summary domain.ReportSummary) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	addRow := func(label, value string) {
		row := sheet.AddRow()
		row.AddCell().Value = label
		row.AddCell().Value = value
	}

	addRow("Total Sales", strconv.Itoa(summary.TotalSales))
	addRow("Total Revenue", summary.TotalRevenue.StringFixed(2))
	addRow("Total Items", strconv.Itoa(summary.TotalItems))

	if summary.TopClient != nil {
		addRow("Top Client", fmt.Sprintf("%s (%s)",
			summary.TopClient.Name, summary.TopClient.Amount.StringFixed(2)))
	}
	if summary.TopProduct != nil {
		addRow("Top Product", fmt.Sprintf("%s (%d units)",
			summary.TopProduct.Name, summary.TopProduct.Qty))
	}

	return nil
}
