package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXFileName is the name offered for the spreadsheet download
const XLSXFileName = "faturas.xlsx"

const xlsxSheet = "Faturas"

// WriteXLSX writes the header and records to a single-sheet workbook
func WriteXLSX(w io.Writer, records []FlatRecord) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := setRow(file, 1, Header); err != nil {
		return fmt.Errorf("failed to set header: %w", err)
	}
	for i, rec := range records {
		if err := setRow(file, i+2, rec.Values()); err != nil {
			return fmt.Errorf("failed to set row %d: %w", i+1, err)
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(file *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return file.SetSheetRow(xlsxSheet, cell, &values)
}
