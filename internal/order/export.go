package order

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Orders"

var exportHeader = []any{"Order ID", "Date", "Customer", "Phone", "Address", "Items", "Shipping", "Total", "Status", "Note"}

// ExportXLSX writes the orders matching f as a single-sheet workbook.
func (m *Manager) ExportXLSX(ctx context.Context, w io.Writer, f Filter) error {
	orders, err := m.List(ctx, f)
	if err != nil {
		return err
	}

	x := excelize.NewFile()
	defer x.Close()
	if err := x.SetSheetName(x.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := x.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := x.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	for i, o := range orders {
		lines := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			label := it.Name
			if it.Variation != "" {
				label += " (" + it.Variation + ")"
			}
			lines = append(lines, fmt.Sprintf("%s x%d", label, it.Quantity))
		}
		row := []any{
			o.ID,
			o.CreatedAt.Format(time.DateTime),
			o.CustomerName,
			o.Phone,
			o.Address,
			strings.Join(lines, "; "),
			o.ShippingFee.InexactFloat64(),
			o.TotalAmount.InexactFloat64(),
			string(o.Status),
			o.Note,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := x.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("export row %d: %w", i+2, err)
		}
	}
	if err := x.SetColWidth(exportSheet, "A", "A", 14); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := x.SetColWidth(exportSheet, "E", "F", 40); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := x.WriteTo(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
