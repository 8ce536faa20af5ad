package view

import (
	"context"
	"sync"
	"time"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/dispatcher"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SourceLoader returns the current invoice collection, typically from the cache
type SourceLoader func(ctx context.Context) ([]entity.Invoice, error)

// SessionConfig configures a Session
type SessionConfig struct {
	Scheduler   Scheduler
	Debounce    time.Duration
	ClampPolicy ClampPolicy
	MemoSize    int
	Logger      Logger
}

// Session is the view state of one operator: filters, raw and settled search,
// sort and page cursor, plus the source collection it derives from.
type Session struct {
	mu sync.Mutex

	source   []entity.Invoice
	revision uint64
	loaded   bool

	filters   FilterState
	rawSearch string
	sort      SortSpec
	page      int
	policy    ClampPolicy

	debouncer *Debouncer
	memo      *Memo
	logger    Logger

	onChange    []func()
	unsubscribe func()
}

// NewSession creates a session with default filters, default sort and page 1
func NewSession(cfg SessionConfig) (*Session, error) {
	memo, err := NewMemo(cfg.MemoSize)
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	s := &Session{
		filters: DefaultFilters(),
		sort:    DefaultSort(),
		page:    1,
		policy:  cfg.ClampPolicy,
		memo:    memo,
		logger:  cfg.Logger,
	}
	s.debouncer = NewDebouncer(cfg.Scheduler, cfg.Debounce, s.applySearch)
	return s, nil
}

// OnChange registers a callback run after the derived view may have changed
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Attach loads the source once and reloads it whenever the invoices
// collection is refreshed. Close detaches.
func (s *Session) Attach(ctx context.Context, events dispatcher.Dispatcher, load SourceLoader) error {
	reload := func(ctx context.Context, _ *event.Event) error {
		invoices, err := load(ctx)
		if err != nil {
			// The previous rows stay visible; the cache reports its own failures.
			s.logError("Failed to reload invoices for view", "error", err)
			return err
		}
		s.SetSource(invoices)
		return nil
	}

	unsubscribe := events.Subscribe(event.TypeCollectionRefreshed, "view-session",
		dispatcher.CollectionFilter(entity.CacheKeyInvoices, reload))

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	return reload(ctx, nil)
}

// Close stops the debouncer and detaches from refresh events
func (s *Session) Close() {
	s.debouncer.Stop()

	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// SetSource replaces the source collection
func (s *Session) SetSource(invoices []entity.Invoice) {
	s.update(func() {
		s.source = invoices
		s.revision++
		s.loaded = true
	}, true)
}

// Loaded reports whether a source collection was ever set
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// SetStatusFilter changes the status predicate
func (s *Session) SetStatusFilter(status StatusFilter) {
	s.update(func() { s.filters.Status = status }, true)
}

// TypeSearch records raw search input. The settled value reaches the
// pipeline only after the debounce quiet period.
func (s *Session) TypeSearch(raw string) {
	s.mu.Lock()
	s.rawSearch = raw
	s.mu.Unlock()

	s.debouncer.Push(raw)
}

// FlushSearch applies pending search input immediately
func (s *Session) FlushSearch() {
	s.debouncer.Flush()
}

func (s *Session) applySearch(settled string) {
	s.update(func() { s.filters.Search = settled }, true)
}

// SetDateRange sets the inclusive due date bounds; nil clears a bound
func (s *Session) SetDateRange(start, end *time.Time) {
	s.update(func() { s.filters = s.filters.WithDateRange(start, end) }, true)
}

// ClearFilters resets every filter, drops pending search input and returns to page 1
func (s *Session) ClearFilters() {
	s.debouncer.Stop()
	s.update(func() {
		s.filters = DefaultFilters()
		s.rawSearch = ""
		s.page = 1
	}, false)
}

// RequestSort applies a column sort request
func (s *Session) RequestSort(key string) {
	s.update(func() { s.sort = s.sort.Request(key) }, false)
}

// SetPage moves the cursor, bounded to the available pages
func (s *Session) SetPage(page int) {
	s.update(func() {
		s.page = ClampPage(page, s.totalLocked())
	}, false)
}

// View returns the rows of the current page and the total matched count
func (s *Session) View() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Derive(s.revision, s.source, s.filters, s.sort, s.page)
}

// ExportRows returns the full filtered and sorted collection, ignoring paging
func (s *Session) ExportRows() []entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterAndSort(s.source, s.filters, s.sort)
}

// State is a snapshot of the session inputs
type State struct {
	Filters   FilterState
	RawSearch string
	Sort      SortSpec
	Page      int
	PageCount int
}

// State returns a snapshot of the session inputs
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Filters:   s.filters,
		RawSearch: s.rawSearch,
		Sort:      s.sort,
		Page:      s.page,
		PageCount: PageCount(s.totalLocked()),
	}
}

// update mutates state under the lock, applies the clamp policy when the
// filtered set may have changed and notifies listeners.
func (s *Session) update(mutate func(), filteredSetChanged bool) {
	s.mu.Lock()
	mutate()
	if filteredSetChanged && s.policy == ClampOnChange {
		s.page = ClampPage(s.page, s.totalLocked())
	}
	listeners := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Session) totalLocked() int {
	return s.memo.Derive(s.revision, s.source, s.filters, s.sort, s.page).TotalMatched
}

func (s *Session) logError(msg string, kv ...interface{}) {
	if s.logger != nil {
		s.logger.Error(msg, kv...)
	}
}
