// Package notify carries cart and order notifications between the managers
// and whoever displays them.
package notify

import (
	"sync"
	"time"

	"github.com/MikeMC777/leathershop/internal/domain"
)

type Topic string

const (
	TopicCartChanged Topic = "cart.changed"
	TopicOrderPlaced Topic = "order.placed"
)

type Source string

const (
	// SourceLocal events come from a manager in this process.
	SourceLocal Source = "local"
	// SourceRemote events were reconstructed from another context's slot write.
	SourceRemote Source = "remote"
)

type Event struct {
	Topic  Topic         `json:"topic"`
	Source Source        `json:"source"`
	Order  *domain.Order `json:"order,omitempty"`
	// CartCount is the total quantity in the cart after a cart change.
	CartCount int       `json:"cart_count,omitempty"`
	At        time.Time `json:"at"`
}

type Handler func(Event)

// Bus is a synchronous publish/subscribe hub. Handlers run on the publishing
// goroutine in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic][]subscription
}

type subscription struct {
	id int
	h  Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if e.Source == "" {
		e.Source = SourceLocal
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic]))
	for _, s := range b.subs[e.Topic] {
		handlers = append(handlers, s.h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Subscribers reports how many handlers listen on topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
