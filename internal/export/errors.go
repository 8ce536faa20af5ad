package export

import "errors"

var (
	// ErrUnknownFormat is returned for export formats other than csv and xlsx
	ErrUnknownFormat = errors.New("unknown export format")
)
