package view

import "math"

// PageSize is the fixed number of rows per page
const PageSize = 15

// MaxPage is the largest cursor whose row offset still fits in an int
const MaxPage = math.MaxInt/PageSize + 1

// PageCount returns max(1, ceil(total / PageSize))
func PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// ClampPage bounds a 1-based cursor to [1, PageCount(total)]
func ClampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if last := PageCount(total); page > last {
		return last
	}
	return page
}

// ClampPolicy decides what happens to the page cursor when the filtered set changes
type ClampPolicy int

const (
	// ClampOnChange bounds the cursor after every filter, search, date or source change
	ClampOnChange ClampPolicy = iota
	// KeepCursor leaves the cursor untouched; a shrunk result may yield an empty page
	KeepCursor
)

// ParseClampPolicy accepts "clamp" or "keep"
func ParseClampPolicy(raw string) ClampPolicy {
	if raw == "keep" {
		return KeepCursor
	}
	return ClampOnChange
}
