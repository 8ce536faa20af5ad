package view

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// DefaultMemoSize is the number of derived views kept per memo
const DefaultMemoSize = 64

// Memo caches Derive results keyed on the source revision and the four
// view inputs. Callers must treat returned slices as read-only.
type Memo struct {
	cache *lru.Cache[memoKey, Result]
}

type memoKey struct {
	revision uint64
	status   string
	search   string
	start    int64
	end      int64
	sortKey  string
	desc     bool
	page     int
}

// NewMemo creates a memo holding up to size results
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[memoKey, Result](size)
	if err != nil {
		return nil, fmt.Errorf("create derive memo: %w", err)
	}
	return &Memo{cache: cache}, nil
}

// Derive returns the memoized result for the inputs, computing it on a miss.
// revision must change whenever source changes.
func (m *Memo) Derive(revision uint64, source []entity.Invoice, filters FilterState, sort SortSpec, page int) Result {
	key := memoKey{
		revision: revision,
		status:   filters.Status.String(),
		search:   filters.Search,
		start:    dateKey(filters.Start),
		end:      dateKey(filters.End),
		sortKey:  CanonicalKey(sort.Key),
		desc:     sort.Direction == Descending,
		page:     page,
	}
	if res, ok := m.cache.Get(key); ok {
		return res
	}
	res := Derive(source, filters, sort, page)
	m.cache.Add(key, res)
	return res
}

// Len returns the number of cached results
func (m *Memo) Len() int {
	return m.cache.Len()
}

// Purge drops every cached result
func (m *Memo) Purge() {
	m.cache.Purge()
}

func dateKey(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return startOfDay(*t).UnixNano()
}
