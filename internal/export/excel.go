package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"villetta/internal/models"
)

// PricingCalendarXLSX writes a pricing calendar as a spreadsheet: one row per
// date with the nightly rate in major units, plus availability where known.
// Back-office staff reconcile channel rates against these exports.
func PricingCalendarXLSX(w io.Writer, property *models.Property, prices map[string]int64, availability map[string]bool) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(property.Name)
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", fmt.Sprintf("Nightly rate (%s)", property.Currency), "Available"}
	for i, col := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "C1", style)
	}

	dates := make([]string, 0, len(prices))
	for date := range prices {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for i, date := range dates {
		row := i + 2
		values := []any{date, float64(prices[date]) / 100}
		if availability != nil {
			if available, ok := availability[date]; ok {
				values = append(values, available)
			}
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// sheetName truncates to Excel's 31-char sheet name limit.
func sheetName(name string) string {
	if name == "" {
		return "Pricing"
	}
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
