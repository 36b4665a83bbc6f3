package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"quotedesk/internal/domain"
	"quotedesk/internal/logging"
)

var busLog = logging.ForComponent(logging.CompBus)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// DefaultBufferSize is the number of events queued before Publish drops
const DefaultBufferSize = 1000

// New creates a new event bus
func New() EventBus {
	return NewWithBuffer(DefaultBufferSize)
}

// NewWithBuffer creates an event bus with a custom queue size
func NewWithBuffer(size int) EventBus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, size),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for delivery. It never blocks; when the queue is
// full the event is dropped and logged.
func (b *bus) Publish(event DomainEvent) {
	select {
	case <-b.quit:
		return
	default:
	}

	busLog.Debug("publish", slog.String("event", string(event.Type())))

	select {
	case b.eventChan <- event:
	default:
		busLog.Warn("queue_full_dropping", slog.String("event", string(event.Type())))
	}
}

// Subscribe registers handler for eventType and returns a func that removes
// exactly this registration. Calling it more than once is harmless.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}
}

// Close stops the dispatcher. Events still queued are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			handlers := make([]EventHandler, len(subs))
			for i, s := range subs {
				handlers[i] = s.handler
			}
			b.mu.RUnlock()

			for _, handler := range handlers {
				// Handlers run on their own goroutine so a slow one cannot stall the bus
				go func(h EventHandler) {
					defer func() {
						if r := recover(); r != nil {
							busLog.Error("handler_panic",
								slog.String("event", string(event.Type())),
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					h(event)
				}(handler)
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
