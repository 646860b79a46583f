package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// Sheet names of the regulation workbook
const (
	SheetText  = "規程"
	SheetRates = "旅費表"
)

// XLSXRenderer writes a workbook with the regulation text and an editable rate table
type XLSXRenderer struct{}

func (XLSXRenderer) Format() string    { return entity.ExportFormatXLSX }
func (XLSXRenderer) Extension() string { return "xlsx" }
func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Render(doc regulation.Document, text string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetText); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, line := range lines(text) {
		if err := setCell(f, SheetText, 1, i+1, line); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(SheetText, "A", "A", 100); err != nil {
		return nil, fmt.Errorf("failed to size column: %w", err)
	}

	if _, err := f.NewSheet(SheetRates); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeRateTable(f, doc); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRateTable(f *excelize.File, doc regulation.Document) error {
	// row 1 groups the columns: B-D domestic, E-H overseas
	header := regulation.RateTableHeader
	if err := setCell(f, SheetRates, 2, 1, header[0][1]); err != nil {
		return err
	}
	if err := setCell(f, SheetRates, 5, 1, header[0][2]); err != nil {
		return err
	}
	if err := f.MergeCell(SheetRates, "B1", "D1"); err != nil {
		return fmt.Errorf("failed to merge cells: %w", err)
	}
	if err := f.MergeCell(SheetRates, "E1", "H1"); err != nil {
		return fmt.Errorf("failed to merge cells: %w", err)
	}

	for col, v := range header[1] {
		if err := setCell(f, SheetRates, col+1, 2, v); err != nil {
			return err
		}
	}

	for i, p := range doc.Positions {
		for col, v := range regulation.RateRow(doc, p) {
			if err := setCell(f, SheetRates, col+1, i+3, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell %d,%d: %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
	}
	return nil
}
