package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// Format is an export serialization
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" (also the default for "") or "xlsx"
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// FileName returns the download file name for the format
func (f Format) FileName() string {
	if f == FormatXLSX {
		return XLSXFileName
	}
	return FileName
}

// ContentType returns the MIME type of the artifact
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write projects the sorted collection and serializes it in the given format
func Write(w io.Writer, format Format, sorted []entity.Invoice) error {
	records := Project(sorted)
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
