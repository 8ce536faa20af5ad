package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func (m *mockLogger) HasInfo(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.infos {
		if info == msg {
			return true
		}
	}
	return false
}

func refreshed(key string) *event.Event {
	return event.CollectionEvent(event.TypeCollectionRefreshed, key)
}

func TestSubscribe(t *testing.T) {
	t.Run("subscribes handler with auto-generated name", func(t *testing.T) {
		d := NewDispatcher()
		called := false

		d.Subscribe(event.TypeCollectionRefreshed, "", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Dispatch(context.Background(), refreshed("invoices")); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if !called {
			t.Error("expected handler to be called")
		}

		handlers := d.ListHandlers(event.TypeCollectionRefreshed)
		if len(handlers) != 1 || handlers[0].Name == "" {
			t.Errorf("expected one named handler, got %+v", handlers)
		}
	})

	t.Run("logs registration", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.Subscribe(event.TypePaymentRegistered, "audit", func(ctx context.Context, evt *event.Event) error {
			return nil
		})

		if !logger.HasInfo("Handler registered") {
			t.Error("expected registration to be logged")
		}
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("removes only the returned subscription", func(t *testing.T) {
		d := NewDispatcher()
		var first, second int

		unsubscribe := d.Subscribe(event.TypeCollectionRefreshed, "same-name", func(ctx context.Context, evt *event.Event) error {
			first++
			return nil
		})
		d.Subscribe(event.TypeCollectionRefreshed, "same-name", func(ctx context.Context, evt *event.Event) error {
			second++
			return nil
		})

		unsubscribe()
		unsubscribe()

		_ = d.Dispatch(context.Background(), refreshed("invoices"))

		if first != 0 {
			t.Errorf("removed handler called %d times", first)
		}
		if second != 1 {
			t.Errorf("remaining handler called %d times, want 1", second)
		}
	})

	t.Run("handler may unsubscribe itself while dispatching", func(t *testing.T) {
		d := NewDispatcher()
		calls := 0
		var unsubscribe func()
		unsubscribe = d.Subscribe(event.TypeCollectionRefreshed, "once", func(ctx context.Context, evt *event.Event) error {
			calls++
			unsubscribe()
			return nil
		})

		_ = d.Dispatch(context.Background(), refreshed("invoices"))
		_ = d.Dispatch(context.Background(), refreshed("invoices"))

		if calls != 1 {
			t.Errorf("handler called %d times, want 1", calls)
		}
	})
}

func TestDispatch(t *testing.T) {
	t.Run("dispatches to all handlers in order", func(t *testing.T) {
		d := NewDispatcher()
		var order []string

		for _, name := range []string{"a", "b", "c"} {
			name := name
			d.Subscribe(event.TypeInvoicesGenerated, name, func(ctx context.Context, evt *event.Event) error {
				order = append(order, name)
				return nil
			})
		}

		if err := d.Dispatch(context.Background(), event.NewEvent(event.TypeInvoicesGenerated, 0, nil)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if fmt.Sprint(order) != "[a b c]" {
			t.Errorf("order = %v", order)
		}
	})

	t.Run("keeps running handlers after an error", func(t *testing.T) {
		d := NewDispatcher()
		boom := errors.New("boom")
		secondCalled := false

		d.Subscribe(event.TypeInvoicesGenerated, "failing", func(ctx context.Context, evt *event.Event) error {
			return boom
		})
		d.Subscribe(event.TypeInvoicesGenerated, "ok", func(ctx context.Context, evt *event.Event) error {
			secondCalled = true
			return nil
		})

		err := d.Dispatch(context.Background(), event.NewEvent(event.TypeInvoicesGenerated, 0, nil))
		if !errors.Is(err, boom) {
			t.Errorf("expected joined error wrapping boom, got %v", err)
		}
		if !secondCalled {
			t.Error("expected second handler to run")
		}
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.Subscribe(event.TypeMutationFailed, "panics", func(ctx context.Context, evt *event.Event) error {
			panic("kaboom")
		})

		err := d.Dispatch(context.Background(), event.NewEvent(event.TypeMutationFailed, 0, nil))
		if err == nil {
			t.Fatal("expected error from panicking handler")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected panic to be logged")
		}
	})

	t.Run("returns ErrClosed after close", func(t *testing.T) {
		d := NewDispatcher()
		_ = d.Close()

		err := d.Dispatch(context.Background(), refreshed("invoices"))
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})
}

func TestCollectionFilter(t *testing.T) {
	d := NewDispatcher()
	var seen []string

	d.Subscribe(event.TypeCollectionRefreshed, "invoices-only", CollectionFilter("invoices", func(ctx context.Context, evt *event.Event) error {
		seen = append(seen, evt.GetPayloadString(event.KeyCollection))
		return nil
	}))

	_ = d.Dispatch(context.Background(), refreshed("dashboardData"))
	_ = d.Dispatch(context.Background(), refreshed("invoices"))

	if len(seen) != 1 || seen[0] != "invoices" {
		t.Errorf("seen = %v, want [invoices]", seen)
	}
}

func TestDispatchAsync(t *testing.T) {
	t.Run("close waits for async handlers", func(t *testing.T) {
		d := NewDispatcher()
		var count atomic.Int32

		for i := 0; i < 3; i++ {
			d.Subscribe(event.TypeCollectionInvalidated, "", func(ctx context.Context, evt *event.Event) error {
				count.Add(1)
				return nil
			})
		}

		d.DispatchAsync(context.Background(), event.CollectionEvent(event.TypeCollectionInvalidated, "invoices"))

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if got := count.Load(); got != 3 {
			t.Errorf("handled %d, want 3", got)
		}
	})

	t.Run("logs async handler errors", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.Subscribe(event.TypeCollectionInvalidated, "failing", func(ctx context.Context, evt *event.Event) error {
			return errors.New("boom")
		})

		d.DispatchAsync(context.Background(), event.CollectionEvent(event.TypeCollectionInvalidated, "invoices"))
		_ = d.Close()

		if logger.ErrorCount() == 0 {
			t.Error("expected async error to be logged")
		}
	})

	t.Run("does not dispatch after close", func(t *testing.T) {
		d := NewDispatcher()
		called := false
		d.Subscribe(event.TypeCollectionInvalidated, "", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		_ = d.Close()
		d.DispatchAsync(context.Background(), event.CollectionEvent(event.TypeCollectionInvalidated, "invoices"))

		if called {
			t.Error("handler should not run after close")
		}
	})

	t.Run("double close returns error", func(t *testing.T) {
		d := NewDispatcher()
		_ = d.Close()
		if err := d.Close(); err == nil {
			t.Error("expected error on double close")
		}
	})
}

func TestConcurrency(t *testing.T) {
	d := NewDispatcher()
	var count atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Subscribe(event.TypeCollectionRefreshed, "", func(ctx context.Context, evt *event.Event) error {
				count.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), refreshed("invoices"))
		}()
	}
	wg.Wait()

	if got := count.Load(); got != 200 {
		t.Errorf("handled %d, want 200", got)
	}
}
