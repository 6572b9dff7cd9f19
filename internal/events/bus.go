package events

import (
	"sync"

	"github.com/google/uuid"
)

// Subscriber receives the events published for one user. Send is buffered;
// a slow subscriber drops events rather than blocking the bus.
type Subscriber struct {
	ID     string
	UserID uuid.UUID
	Send   chan Event
}

// Bus fans identity events out to per-user subscribers.
type Bus struct {
	subscribers map[string]*Subscriber
	register    chan *Subscriber
	unregister  chan *Subscriber
	publish     chan Event
	mu          sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		publish:     make(chan Event, 256),
	}
}

func (b *Bus) Run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscribers[sub.ID] = sub
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.subscribers[sub.ID]; ok {
				delete(b.subscribers, sub.ID)
				close(sub.Send)
			}
			b.mu.Unlock()

		case ev := <-b.publish:
			b.mu.RLock()
			for _, sub := range b.subscribers {
				if sub.UserID != ev.User {
					continue
				}
				select {
				case sub.Send <- ev:
				default:
					// Subscriber buffer full, skip
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *Bus) Subscribe(sub *Subscriber) {
	b.register <- sub
}

func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.unregister <- sub
}

func (b *Bus) Publish(ev Event) {
	b.publish <- ev
}
