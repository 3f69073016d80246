package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"cabquote/internal"
	"cabquote/internal/util"
)

// ExportLineItemsToXLSX writes a priced bill of materials. Every row keeps
// its match provenance so an estimator can audit "NOT FOUND" and fuzzy
// rows; the trailing totals block applies the project financials.
func ExportLineItemsToXLSX(lines []internal.PricingLineItem, fin *internal.ProjectFinancials, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"room", "code", "normalized_code", "type", "description",
		"width", "height", "depth", "qty",
		"base_price", "options_price", "unit_cost", "unit_price", "total_price",
		"tier", "source", "applied_options",
	}
	for i, h := range headers {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cellName, h)
	}

	subtotal := 0.0
	for i, line := range lines {
		r := i + 2
		set := func(col int, value any) {
			cellName, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cellName, value)
		}

		set(1, line.Room)
		set(2, line.OriginalCode)
		set(3, line.NormalizedCode)
		set(4, string(line.Type))
		set(5, line.Description)
		set(6, line.Width)
		set(7, line.Height)
		set(8, line.Depth)
		set(9, line.Quantity)
		set(10, line.BasePrice)
		set(11, line.OptionsPrice)
		set(12, line.UnitCost)
		set(13, line.FinalUnitPrice)
		set(14, line.TotalPrice)
		set(15, line.TierName)
		set(16, line.Source)
		set(17, formatAppliedOptions(line.AppliedOptions))

		subtotal += line.TotalPrice
	}

	writeTotals(f, sheet, len(lines)+3, subtotal, fin)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeTotals(f *excelize.File, sheet string, startRow int, subtotal float64, fin *internal.ProjectFinancials) {
	row := startRow
	put := func(label string, value float64) {
		labelCell, _ := excelize.CoordinatesToCellName(13, row)
		valueCell, _ := excelize.CoordinatesToCellName(14, row)
		_ = f.SetCellValue(sheet, labelCell, label)
		_ = f.SetCellValue(sheet, valueCell, util.Round2(value))
		row++
	}

	put("Subtotal", subtotal)
	total := subtotal
	if fin != nil {
		if fin.DiscountRate > 0 {
			discount := subtotal * percentFraction(fin.DiscountRate)
			put("Discount", -discount)
			total -= discount
		}
		if fin.TaxRate > 0 {
			tax := total * percentFraction(fin.TaxRate)
			put("Tax", tax)
			total += tax
		}
		extras := fin.ShippingCost + fin.FuelSurcharge + fin.MiscCharge
		if extras > 0 {
			put("Shipping & charges", extras)
			total += extras
		}
	}
	put("Total", total)
}

func formatAppliedOptions(options []internal.AppliedOption) string {
	if len(options) == 0 {
		return ""
	}
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		parts = append(parts, fmt.Sprintf("%s: %.2f", opt.Name, opt.Price))
	}
	return strings.Join(parts, "; ")
}
