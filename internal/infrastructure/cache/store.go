// Package cache holds previously fetched collections by key. Invalidating a
// key marks it stale and refetches it in the background; subscribers learn
// about both through collection events.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/dispatcher"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/event"
)

// DefaultRefetchTimeout bounds a single background refetch
const DefaultRefetchTimeout = 30 * time.Second

var (
	// ErrNoLoader is returned by Get for keys without a registered loader
	ErrNoLoader = errors.New("no loader registered for key")

	// ErrClosed is returned by Get after Close
	ErrClosed = errors.New("cache store closed")
)

// Loader fetches the collection stored under key
type Loader func(ctx context.Context, key string) (interface{}, error)

// Config configures the store
type Config struct {
	RefetchTimeout time.Duration
}

type entry struct {
	value     interface{}
	stale     bool
	updatedAt time.Time
	// generation increases on every invalidation; a refetch only lands if
	// no newer invalidation happened meanwhile
	generation uint64
}

// Store is an in-process keyed collection cache
type Store struct {
	cfg    Config
	events dispatcher.Publisher
	logger *zap.Logger

	mu       sync.Mutex
	loaders  map[string]Loader
	prefixes map[string]Loader
	entries  map[string]*entry
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates a store. events may be nil.
func NewStore(cfg Config, events dispatcher.Publisher, logger *zap.Logger) *Store {
	if cfg.RefetchTimeout <= 0 {
		cfg.RefetchTimeout = DefaultRefetchTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		cfg:      cfg,
		events:   events,
		logger:   logger,
		loaders:  make(map[string]Loader),
		prefixes: make(map[string]Loader),
		entries:  make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register sets the loader of an exact key
func (s *Store) Register(key string, loader Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[key] = loader
}

// RegisterPrefix sets the loader of every key starting with prefix,
// e.g. "studentProfile:"
func (s *Store) RegisterPrefix(prefix string, loader Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes[prefix] = loader
}

// Get returns the cached value, loading it on first use. A stale value is
// served while its refetch runs.
func (s *Store) Get(ctx context.Context, key string) (interface{}, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if e, ok := s.entries[key]; ok {
		value := e.value
		s.mu.Unlock()
		return value, nil
	}
	loader := s.loaderLocked(key)
	s.mu.Unlock()

	if loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, key)
	}

	value, err := loader(ctx, key)
	if err != nil {
		s.logger.Error("Failed to load collection", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		// a concurrent load or refetch landed first
		value = e.value
	} else {
		s.entries[key] = &entry{value: value, updatedAt: time.Now()}
	}
	s.mu.Unlock()

	return value, nil
}

// Invalidate marks the key stale and refetches it in the background when it
// was loaded before. Keys never loaded are only announced.
func (s *Store) Invalidate(ctx context.Context, key string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	e, cached := s.entries[key]
	loader := s.loaderLocked(key)
	var generation uint64
	if cached {
		e.stale = true
		e.generation++
		generation = e.generation
	}
	refetch := cached && loader != nil
	if refetch {
		// counted before unlocking so Close waits for it
		s.wg.Add(1)
	}
	s.mu.Unlock()

	s.logger.Debug("Collection invalidated", zap.String("key", key), zap.Bool("cached", cached))
	s.publish(event.TypeCollectionInvalidated, key)

	if refetch {
		go s.refetch(key, loader, generation)
	}
}

func (s *Store) refetch(key string, loader Loader, generation uint64) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RefetchTimeout)
	defer cancel()

	value, err := loader(ctx, key)
	if err != nil {
		// previous value stays in place, still marked stale
		s.logger.Error("Failed to refetch collection", zap.String("key", key), zap.Error(err))
		return
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.generation != generation {
		s.mu.Unlock()
		return
	}
	e.value = value
	e.stale = false
	e.updatedAt = time.Now()
	s.mu.Unlock()

	s.logger.Debug("Collection refreshed", zap.String("key", key))
	s.publish(event.TypeCollectionRefreshed, key)
}

// Stale reports whether the key is cached and marked stale
func (s *Store) Stale(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.stale
}

// Keys returns the cached keys in lexical order
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Wait blocks until in-flight refetches finish
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight refetches and waits for them
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Store) loaderLocked(key string) Loader {
	if l, ok := s.loaders[key]; ok {
		return l
	}
	for prefix, l := range s.prefixes {
		if strings.HasPrefix(key, prefix) {
			return l
		}
	}
	return nil
}

func (s *Store) publish(t event.Type, key string) {
	if s.events == nil {
		return
	}
	if err := s.events.Dispatch(s.ctx, event.CollectionEvent(t, key)); err != nil {
		s.logger.Warn("Collection event handler failed",
			zap.String("type", t.String()),
			zap.String("key", key),
			zap.Error(err))
	}
}

// Verify interface compliance
var _ port.CacheStore = (*Store)(nil)
