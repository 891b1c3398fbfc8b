package event

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 64

type subscriber struct {
	ch    chan Event
	types map[Type]bool
}

func (s subscriber) wants(t Type) bool {
	return len(s.types) == 0 || s.types[t]
}

type InMemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string]subscriber
}

func NewBus() *InMemoryBus {
	return &InMemoryBus{
		subscribers: make(map[string]subscriber),
	}
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (b *InMemoryBus) Publish(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subscribers {
		if !sub.wants(e.Type) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			slog.Debug("event dropped for slow subscriber", "subscriber", id, "type", e.Type)
		}
	}
}

// Subscribe delivers events of the listed types, or of every type when none
// are given. The returned func closes the channel and is safe to call twice.
func (b *InMemoryBus) Subscribe(types ...Type) (<-chan Event, func()) {
	filter := make(map[Type]bool, len(types))
	for _, t := range types {
		filter[t] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = subscriber{ch: ch, types: filter}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}

	return ch, unsubscribe
}

func (b *InMemoryBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
