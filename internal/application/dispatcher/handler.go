package dispatcher

import (
	"context"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}

// Publisher is the narrow side of the dispatcher used by event producers
type Publisher interface {
	Dispatch(ctx context.Context, evt *event.Event) error
	DispatchAsync(ctx context.Context, evt *event.Event)
}

// CollectionFilter wraps a handler so it only sees collection events for key
func CollectionFilter(key string, h Handler) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		if evt.GetPayloadString(event.KeyCollection) != key {
			return nil
		}
		return h(ctx, evt)
	}
}
