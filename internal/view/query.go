package view

import (
	"fmt"
	"time"
)

// DateLayout is the layout of date bounds in queries
const DateLayout = "2006-01-02"

// Query is the textual form of a one-shot derivation request, as received
// from HTTP query strings or command line flags.
type Query struct {
	Status string `form:"status"`
	Search string `form:"search"`
	From   string `form:"from"`
	To     string `form:"to"`
	Sort   string `form:"sort"`
	Dir    string `form:"dir"`
	Page   int    `form:"page"`
}

// Parse validates the query. Empty fields keep their defaults: every
// status, no search, open date bounds, due date descending and page 1.
func (q Query) Parse() (FilterState, SortSpec, int, error) {
	filters := DefaultFilters()

	status, err := ParseStatusFilter(q.Status)
	if err != nil {
		return filters, SortSpec{}, 0, err
	}
	filters.Status = status
	filters.Search = q.Search

	start, err := parseDate("from", q.From)
	if err != nil {
		return filters, SortSpec{}, 0, err
	}
	end, err := parseDate("to", q.To)
	if err != nil {
		return filters, SortSpec{}, 0, err
	}
	filters = filters.WithDateRange(start, end)

	sort := DefaultSort()
	if q.Sort != "" {
		if !IsSortKey(q.Sort) {
			return filters, SortSpec{}, 0, fmt.Errorf("unknown sort key %q", q.Sort)
		}
		sort = SortSpec{Key: q.Sort, Direction: ParseDirection(q.Dir)}
	} else if q.Dir != "" {
		sort.Direction = ParseDirection(q.Dir)
	}

	page := min(max(q.Page, 1), MaxPage)
	return filters, sort, page, nil
}

// ParseDate parses a YYYY-MM-DD bound in local time; empty means unbounded
func ParseDate(raw string) (*time.Time, error) {
	return parseDate("date", raw)
}

func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", field, raw)
	}
	return &t, nil
}
