package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// FileName is the name offered for the CSV download
const FileName = "faturas.csv"

// BOM is the UTF-8 byte order mark written before the header
const BOM = "\ufeff"

// WriteCSV writes the BOM, the header row and one row per record
func WriteCSV(w io.Writer, records []FlatRecord) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("failed to write byte order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(rec.Values()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
