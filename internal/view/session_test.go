package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/dispatcher"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/event"
)

type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

// fortyInvoices: ids 1..40, only 38, 39 and 40 are partially paid
func fortyInvoices() []entity.Invoice {
	out := make([]entity.Invoice, 0, 40)
	for i := int64(1); i <= 40; i++ {
		status := entity.StatusOpen
		if i > 37 {
			status = entity.StatusPartiallyPaid
		}
		name := fmt.Sprintf("Aluno %02d", i)
		if i == 7 {
			name = "Ana Paula"
		}
		out = append(out, invoice(i, name, status, day(2024, 1, 1).AddDate(0, 0, int(i)), 1000))
	}
	return out
}

func newSession(t *testing.T, policy ClampPolicy) (*Session, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler()
	s, err := NewSession(SessionConfig{Scheduler: sched, ClampPolicy: policy})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, sched
}

func TestSession_Defaults(t *testing.T) {
	s, _ := newSession(t, ClampOnChange)

	st := s.State()
	assert.True(t, st.Filters.IsDefault())
	assert.Equal(t, DefaultSort(), st.Sort)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 1, st.PageCount)
	assert.False(t, s.Loaded())

	v := s.View()
	assert.Equal(t, 0, v.TotalMatched)
	assert.Empty(t, v.Visible)
}

func TestSession_ClampOnChange(t *testing.T) {
	s, _ := newSession(t, ClampOnChange)
	s.SetSource(fortyInvoices())

	s.SetPage(3)
	require.Equal(t, 3, s.State().Page)
	assert.Len(t, s.View().Visible, 10)

	s.SetStatusFilter(OnlyStatus(entity.StatusPartiallyPaid))

	st := s.State()
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 1, st.PageCount)
	assert.Len(t, s.View().Visible, 3)
}

func TestSession_KeepCursor(t *testing.T) {
	s, _ := newSession(t, KeepCursor)
	s.SetSource(fortyInvoices())

	s.SetPage(3)
	s.SetStatusFilter(OnlyStatus(entity.StatusPartiallyPaid))

	assert.Equal(t, 3, s.State().Page)
	v := s.View()
	assert.Equal(t, 3, v.TotalMatched)
	assert.Empty(t, v.Visible)
}

func TestSession_SetPageIsBounded(t *testing.T) {
	for _, policy := range []ClampPolicy{ClampOnChange, KeepCursor} {
		s, _ := newSession(t, policy)
		s.SetSource(fortyInvoices())

		s.SetPage(99)
		assert.Equal(t, 3, s.State().Page)

		s.SetPage(-1)
		assert.Equal(t, 1, s.State().Page)
	}
}

func TestSession_DebouncedSearch(t *testing.T) {
	s, sched := newSession(t, ClampOnChange)
	s.SetSource(fortyInvoices())

	s.TypeSearch("a")
	s.TypeSearch("an")
	s.TypeSearch("ana")

	st := s.State()
	assert.Equal(t, "ana", st.RawSearch)
	assert.Equal(t, "", st.Filters.Search)
	assert.Equal(t, 40, s.View().TotalMatched)

	sched.Advance(DefaultDebounce)

	assert.Equal(t, "ana", s.State().Filters.Search)
	v := s.View()
	assert.Equal(t, 1, v.TotalMatched)
	require.Len(t, v.Visible, 1)
	assert.Equal(t, int64(7), v.Visible[0].ID)
}

func TestSession_FlushSearch(t *testing.T) {
	s, _ := newSession(t, ClampOnChange)
	s.SetSource(fortyInvoices())

	s.TypeSearch("aluno 1")
	s.FlushSearch()

	assert.Equal(t, 10, s.View().TotalMatched)
}

func TestSession_ClearFilters(t *testing.T) {
	s, sched := newSession(t, KeepCursor)
	s.SetSource(fortyInvoices())

	s.SetPage(2)
	s.SetStatusFilter(OnlyStatus(entity.StatusOpen))
	start := day(2024, 1, 5)
	s.SetDateRange(&start, nil)
	s.TypeSearch("aluno")

	s.ClearFilters()
	sched.Advance(DefaultDebounce)

	st := s.State()
	assert.True(t, st.Filters.IsDefault())
	assert.Equal(t, "", st.RawSearch)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 40, s.View().TotalMatched)
}

func TestSession_RequestSortKeepsPage(t *testing.T) {
	s, _ := newSession(t, ClampOnChange)
	s.SetSource(fortyInvoices())
	s.SetPage(2)

	s.RequestSort(KeyID)

	st := s.State()
	assert.Equal(t, SortSpec{Key: KeyID, Direction: Ascending}, st.Sort)
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, int64(16), s.View().Visible[0].ID)
}

func TestSession_ExportRowsIgnoresPaging(t *testing.T) {
	s, _ := newSession(t, ClampOnChange)
	s.SetSource(fortyInvoices())
	s.SetStatusFilter(OnlyStatus(entity.StatusOpen))
	s.RequestSort(KeyID)
	s.SetPage(2)

	rows := s.ExportRows()
	require.Len(t, rows, 37)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(37), rows[36].ID)
}

func TestSession_OnChange(t *testing.T) {
	s, _ := newSession(t, ClampOnChange)
	calls := 0
	s.OnChange(func() { calls++ })

	s.SetSource(fortyInvoices())
	s.RequestSort(KeyAmount)
	s.SetPage(2)

	assert.Equal(t, 3, calls)
}

func TestSession_AttachReloadsOnInvoicesRefresh(t *testing.T) {
	d := dispatcher.NewDispatcher()
	defer d.Close()

	s, _ := newSession(t, ClampOnChange)
	all := fortyInvoices()
	loads := 0
	load := func(ctx context.Context) ([]entity.Invoice, error) {
		loads++
		if loads == 1 {
			return all[:20], nil
		}
		return all, nil
	}

	require.NoError(t, s.Attach(context.Background(), d, load))
	assert.True(t, s.Loaded())
	assert.Equal(t, 20, s.View().TotalMatched)

	require.NoError(t, d.Dispatch(context.Background(),
		event.CollectionEvent(event.TypeCollectionRefreshed, entity.CacheKeyDashboardData)))
	assert.Equal(t, 1, loads, "other collections do not reload the view")

	require.NoError(t, d.Dispatch(context.Background(),
		event.CollectionEvent(event.TypeCollectionRefreshed, entity.CacheKeyInvoices)))
	assert.Equal(t, 2, loads)
	assert.Equal(t, 40, s.View().TotalMatched)

	s.Close()
	require.NoError(t, d.Dispatch(context.Background(),
		event.CollectionEvent(event.TypeCollectionRefreshed, entity.CacheKeyInvoices)))
	assert.Equal(t, 2, loads)
}

func TestSession_AttachKeepsRowsOnLoadFailure(t *testing.T) {
	d := dispatcher.NewDispatcher()
	defer d.Close()

	logger := &mockLogger{}
	s, err := NewSession(SessionConfig{Scheduler: NewManualScheduler(), Logger: logger})
	require.NoError(t, err)
	defer s.Close()

	fail := false
	load := func(ctx context.Context) ([]entity.Invoice, error) {
		if fail {
			return nil, errors.New("network down")
		}
		return fortyInvoices(), nil
	}

	require.NoError(t, s.Attach(context.Background(), d, load))

	fail = true
	err = d.Dispatch(context.Background(),
		event.CollectionEvent(event.TypeCollectionRefreshed, entity.CacheKeyInvoices))
	assert.Error(t, err)
	assert.Equal(t, 40, s.View().TotalMatched)
	assert.Len(t, logger.errors, 1)
}
