package view

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func invoice(id int64, name string, status entity.InvoiceStatus, due time.Time, cents int64) entity.Invoice {
	return entity.Invoice{
		ID:          id,
		Member:      entity.Member{ID: id * 10, Name: name, Email: fmt.Sprintf("m%d@example.com", id)},
		DueDate:     due,
		AmountCents: cents,
		Competency:  due.Format("2006-01"),
		Status:      status,
	}
}

// twentyInvoices has 3 PartiallyPaid invoices (ids 4, 9, 15)
func twentyInvoices() []entity.Invoice {
	statuses := []entity.InvoiceStatus{entity.StatusOpen, entity.StatusPaid, entity.StatusOverdue}
	out := make([]entity.Invoice, 0, 20)
	for i := int64(1); i <= 20; i++ {
		status := statuses[i%3]
		if i == 4 || i == 9 || i == 15 {
			status = entity.StatusPartiallyPaid
		}
		out = append(out, invoice(i, fmt.Sprintf("Member %02d", i), status, day(2024, 3, int(i)), 10000+i))
	}
	return out
}

func ids(invoices []entity.Invoice) []int64 {
	out := make([]int64, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.ID
	}
	return out
}

func TestDerive_StatusFilter(t *testing.T) {
	source := twentyInvoices()

	res := Derive(source, FilterState{Status: OnlyStatus(entity.StatusPartiallyPaid)}, DefaultSort(), 1)

	assert.Equal(t, 3, res.TotalMatched)
	assert.ElementsMatch(t, []int64{4, 9, 15}, ids(res.Visible))
	for _, inv := range res.Visible {
		assert.Equal(t, entity.StatusPartiallyPaid, inv.Status)
	}
}

func TestDerive_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	source := []entity.Invoice{
		invoice(1, "Ana Silva", entity.StatusOpen, day(2024, 3, 1), 100),
		invoice(2, "Mariana Costa", entity.StatusOpen, day(2024, 3, 2), 100),
		invoice(3, "Ivana", entity.StatusOpen, day(2024, 3, 3), 100),
		invoice(4, "Bruno Souza", entity.StatusOpen, day(2024, 3, 4), 100),
		invoice(5, "JULIANA", entity.StatusOpen, day(2024, 3, 5), 100),
	}

	res := Derive(source, FilterState{Search: "ana"}, SortSpec{Key: KeyID}, 1)

	assert.Equal(t, 4, res.TotalMatched)
	assert.Equal(t, []int64{1, 2, 3, 5}, ids(res.Visible))

	res = Derive(source, FilterState{Search: "ANA S"}, SortSpec{Key: KeyID}, 1)
	assert.Equal(t, []int64{1}, ids(res.Visible))
}

func TestDerive_DateRangeIsInclusive(t *testing.T) {
	source := []entity.Invoice{
		invoice(1, "A", entity.StatusOpen, time.Date(2024, 3, 9, 23, 59, 59, 0, time.Local), 100),
		invoice(2, "B", entity.StatusOpen, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), 100),
		invoice(3, "C", entity.StatusOpen, time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local), 100),
		invoice(4, "D", entity.StatusOpen, time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local), 100),
		invoice(5, "E", entity.StatusOpen, time.Date(2024, 3, 20, 23, 59, 59, 0, time.Local), 100),
		invoice(6, "F", entity.StatusOpen, time.Date(2024, 3, 21, 0, 0, 0, 0, time.Local), 100),
		{ID: 7, Member: entity.Member{Name: "no due date"}, Status: entity.StatusOpen},
	}

	start := day(2024, 3, 10)
	end := day(2024, 3, 20)

	res := Derive(source, DefaultFilters().WithDateRange(&start, &end), SortSpec{Key: KeyID}, 1)
	assert.Equal(t, []int64{2, 3, 4, 5}, ids(res.Visible))

	res = Derive(source, DefaultFilters().WithDateRange(&start, nil), SortSpec{Key: KeyID}, 1)
	assert.Equal(t, []int64{2, 3, 4, 5, 6}, ids(res.Visible))

	res = Derive(source, DefaultFilters().WithDateRange(nil, &end), SortSpec{Key: KeyID}, 1)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(res.Visible))
}

func TestFilterState_WithDateRangeClampsEnd(t *testing.T) {
	start := day(2024, 3, 10)
	end := day(2024, 3, 1)

	f := DefaultFilters().WithDateRange(&start, &end)

	require.NotNil(t, f.End)
	assert.True(t, f.End.Equal(start))

	start = day(2024, 4, 1)
	assert.True(t, f.Start.Equal(day(2024, 3, 10)), "filter keeps its own copy of the bound")
}

func TestDerive_PredicatesAreConjunctive(t *testing.T) {
	source := twentyInvoices()
	start := day(2024, 3, 5)
	end := day(2024, 3, 16)
	filters := FilterState{Status: OnlyStatus(entity.StatusPartiallyPaid), Search: "member 1"}.WithDateRange(&start, &end)

	res := Derive(source, filters, DefaultSort(), 1)

	want := 0
	for i := range source {
		inv := &source[i]
		if inv.Status == entity.StatusPartiallyPaid &&
			inv.Member.Name[len("Member "):len("Member ")+1] == "1" &&
			!inv.DueDate.Before(start) && !inv.DueDate.After(end) {
			want++
		}
	}
	assert.Equal(t, want, res.TotalMatched)
	assert.Equal(t, []int64{15}, ids(res.Visible))
}

func TestDerive_Pagination(t *testing.T) {
	source := make([]entity.Invoice, 0, 40)
	for i := int64(1); i <= 40; i++ {
		source = append(source, invoice(i, "X", entity.StatusOpen, day(2024, 1, 1).AddDate(0, 0, int(i)), i))
	}
	sort := SortSpec{Key: KeyID, Direction: Ascending}
	full := FilterAndSort(source, DefaultFilters(), sort)

	tests := []struct {
		page      int
		wantFirst int64
		wantLen   int
	}{
		{page: 1, wantFirst: 1, wantLen: 15},
		{page: 2, wantFirst: 16, wantLen: 15},
		{page: 3, wantFirst: 31, wantLen: 10},
		{page: 4, wantLen: 0},
		{page: 0, wantFirst: 1, wantLen: 15},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			res := Derive(source, DefaultFilters(), sort, tt.page)
			assert.Equal(t, 40, res.TotalMatched)
			require.Len(t, res.Visible, tt.wantLen)
			if tt.wantLen == 0 {
				assert.NotNil(t, res.Visible)
				return
			}
			assert.Equal(t, tt.wantFirst, res.Visible[0].ID)

			// contiguous, order-preserving window of the full sequence
			offset := int(tt.wantFirst - 1)
			assert.Equal(t, ids(full[offset:offset+tt.wantLen]), ids(res.Visible))
		})
	}
}

func TestDerive_HugePagesYieldEmptyWindow(t *testing.T) {
	source := twentyInvoices()

	for _, page := range []int{1 << 62, math.MaxInt, MaxPage} {
		t.Run(fmt.Sprintf("page %d", page), func(t *testing.T) {
			var res Result
			assert.NotPanics(t, func() {
				res = Derive(source, DefaultFilters(), DefaultSort(), page)
			})
			assert.Equal(t, 20, res.TotalMatched)
			assert.NotNil(t, res.Visible)
			assert.Empty(t, res.Visible)
		})
	}
}

func TestDerive_IsPureAndIdempotent(t *testing.T) {
	source := twentyInvoices()
	snapshot := append([]entity.Invoice(nil), source...)
	filters := FilterState{Search: "member"}

	first := Derive(source, filters, SortSpec{Key: KeyMemberName, Direction: Descending}, 2)
	second := Derive(source, filters, SortSpec{Key: KeyMemberName, Direction: Descending}, 2)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, source, "source must not be reordered")
}

func TestDerive_EmptySource(t *testing.T) {
	res := Derive(nil, FilterState{Search: "x"}, SortSpec{Key: "no.such.key"}, 3)

	assert.Equal(t, 0, res.TotalMatched)
	assert.Empty(t, res.Visible)
}

func TestDerive_SearchNormalizesAccents(t *testing.T) {
	source := []entity.Invoice{
		invoice(1, "José Lima", entity.StatusOpen, day(2024, 3, 1), 100),
		invoice(2, "Jose\u0301 Rocha", entity.StatusOpen, day(2024, 3, 2), 100),
		invoice(3, "Joselito", entity.StatusOpen, day(2024, 3, 3), 100),
	}

	res := Derive(source, FilterState{Search: "JOSÉ"}, SortSpec{Key: KeyID}, 1)

	assert.Equal(t, []int64{1, 2}, ids(res.Visible))
}
