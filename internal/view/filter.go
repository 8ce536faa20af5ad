package view

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// StatusFilter selects either every invoice or a single status.
// The zero value matches all.
type StatusFilter struct {
	status entity.InvoiceStatus
}

// AllStatuses returns the "match all" filter
func AllStatuses() StatusFilter {
	return StatusFilter{}
}

// OnlyStatus returns a filter matching exactly one status
func OnlyStatus(status entity.InvoiceStatus) StatusFilter {
	return StatusFilter{status: status}
}

// ParseStatusFilter accepts "", "all"/"todos" or a status name
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all", "todos":
		return AllStatuses(), nil
	}
	status, err := entity.ParseInvoiceStatus(raw)
	if err != nil {
		return StatusFilter{}, err
	}
	return OnlyStatus(status), nil
}

// All reports whether the filter matches every status
func (f StatusFilter) All() bool {
	return f.status == ""
}

// Status returns the selected status, empty when the filter matches all
func (f StatusFilter) Status() entity.InvoiceStatus {
	return f.status
}

func (f StatusFilter) String() string {
	if f.All() {
		return "all"
	}
	return f.status.String()
}

func (f StatusFilter) matches(inv *entity.Invoice) bool {
	return f.All() || inv.Status == f.status
}

// FilterState is the user-controlled filter input of the derivation pipeline.
// Search must already be the settled (debounced) value.
type FilterState struct {
	Status StatusFilter
	Search string
	Start  *time.Time
	End    *time.Time
}

// DefaultFilters returns the cleared filter state
func DefaultFilters() FilterState {
	return FilterState{}
}

// WithDateRange returns a copy with the given inclusive bounds. An end date
// before the start date is clamped to the start date.
func (f FilterState) WithDateRange(start, end *time.Time) FilterState {
	f.Start = copyDate(start)
	f.End = copyDate(end)
	if f.Start != nil && f.End != nil && startOfDay(*f.End).Before(startOfDay(*f.Start)) {
		clamped := *f.Start
		f.End = &clamped
	}
	return f
}

// IsDefault reports whether no predicate is active
func (f FilterState) IsDefault() bool {
	return f.Status.All() && f.Search == "" && f.Start == nil && f.End == nil
}

// Matches applies every active predicate conjunctively
func (f FilterState) Matches(inv *entity.Invoice) bool {
	return f.Status.matches(inv) && f.matchesSearch(inv) && f.matchesDates(inv)
}

func (f FilterState) matchesSearch(inv *entity.Invoice) bool {
	if f.Search == "" {
		return true
	}
	return strings.Contains(foldName(inv.Member.Name), foldName(f.Search))
}

// foldName lower-cases and NFC-normalizes so composed and decomposed
// accents compare equal
func foldName(s string) string {
	return norm.NFC.String(strings.ToLower(s))
}

func (f FilterState) matchesDates(inv *entity.Invoice) bool {
	if f.Start == nil && f.End == nil {
		return true
	}
	if inv.DueDate.IsZero() {
		return false
	}
	if f.Start != nil && inv.DueDate.Before(startOfDay(*f.Start)) {
		return false
	}
	if f.End != nil && inv.DueDate.After(endOfDay(*f.End)) {
		return false
	}
	return true
}

// startOfDay returns local midnight of t's calendar day in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last instant of t's calendar day (23:59:59.999999999)
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func copyDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	c := *t
	return &c
}
