// Package notification delivers operator feedback: an in-memory feed of
// recent toasts, a zap logging notifier and the pt-BR message catalog.
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// DefaultFeedSize is the number of notifications kept by a Feed
const DefaultFeedSize = 50

// Feed keeps the most recent notifications in memory, newest first on read
type Feed struct {
	mu    sync.RWMutex
	items []entity.Notification
	size  int
	now   func() time.Time
}

// NewFeed creates a feed holding up to size notifications
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{
		items: make([]entity.Notification, 0, size),
		size:  size,
		now:   time.Now,
	}
}

// Notify appends a notification, dropping the oldest when full
func (f *Feed) Notify(message string, severity entity.Severity) {
	n := entity.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: f.now(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == f.size {
		copy(f.items, f.items[1:])
		f.items = f.items[:len(f.items)-1]
	}
	f.items = append(f.items, n)
}

// List returns up to limit notifications, newest first. limit <= 0 returns all.
func (f *Feed) List(limit int) []entity.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]entity.Notification, 0, limit)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out
}

// Len returns the number of stored notifications
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Clear drops every stored notification
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = f.items[:0]
}
