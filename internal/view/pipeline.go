// Package view derives the rows of the invoice screen from the fetched
// collection and the user-controlled filter, sort and page state.
package view

import (
	"slices"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// Result is the derived view: the rows of the current page and the number of
// invoices matching the filters before slicing.
type Result struct {
	Visible      []entity.Invoice `json:"visible"`
	TotalMatched int              `json:"total_matched"`
}

// Derive runs the pipeline: status, search and date filters, stable sort,
// then the page window. It never mutates source and has no side effects.
func Derive(source []entity.Invoice, filters FilterState, sort SortSpec, page int) Result {
	sorted := FilterAndSort(source, filters, sort)
	return Result{
		Visible:      pageWindow(sorted, page),
		TotalMatched: len(sorted),
	}
}

// Filter returns the invoices matching every active predicate, in input order
func Filter(source []entity.Invoice, filters FilterState) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(source))
	for i := range source {
		if filters.Matches(&source[i]) {
			out = append(out, source[i])
		}
	}
	return out
}

// FilterAndSort returns the full filtered and sorted sequence (no paging).
// This is the input of exports.
func FilterAndSort(source []entity.Invoice, filters FilterState, sort SortSpec) []entity.Invoice {
	out := Filter(source, filters)
	SortStable(out, sort)
	return out
}

// SortStable orders invoices in place by the resolved key path. Unknown keys
// leave the order unchanged; equal keys keep their relative order.
func SortStable(invoices []entity.Invoice, sort SortSpec) {
	get, ok := resolver(CanonicalKey(sort.Key))
	if !ok {
		return
	}
	slices.SortStableFunc(invoices, func(a, b entity.Invoice) int {
		c := get(&a).compare(get(&b))
		if sort.Direction == Descending {
			return -c
		}
		return c
	})
}

func pageWindow(sorted []entity.Invoice, page int) []entity.Invoice {
	if page < 1 {
		page = 1
	}
	// compare page indexes before multiplying so huge pages cannot overflow
	if page-1 >= (len(sorted)+PageSize-1)/PageSize {
		return []entity.Invoice{}
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(sorted))
	return slices.Clone(sorted[start:end])
}
