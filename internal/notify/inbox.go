package notify

import (
	"sync"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// Inbox is the admin notification list. It listens for order.placed on a bus
// and keeps each order once, newest first, no matter how many paths
// delivered it.
type Inbox struct {
	mu     sync.Mutex
	items  []domain.Order
	seen   map[string]struct{}
	unread int
	limit  int

	stop func()
}

// NewInbox subscribes to bus. limit caps the number of kept notifications;
// zero keeps all.
func NewInbox(bus *Bus, limit int) *Inbox {
	in := &Inbox{seen: make(map[string]struct{}), limit: limit}
	in.stop = bus.Subscribe(TopicOrderPlaced, in.handle)
	return in
}

func (in *Inbox) handle(e Event) {
	if e.Order == nil {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, ok := in.seen[e.Order.ID]; ok {
		return
	}
	in.seen[e.Order.ID] = struct{}{}
	in.items = append([]domain.Order{*e.Order}, in.items...)
	in.unread++
	if in.limit > 0 && len(in.items) > in.limit {
		in.items = in.items[:in.limit]
	}
	// unread never counts notifications the inbox no longer holds
	in.unread = min(in.unread, len(in.items))
}

// Items returns a copy of the notifications, newest first.
func (in *Inbox) Items() []domain.Order {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]domain.Order(nil), in.items...)
}

func (in *Inbox) Unread() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.unread
}

func (in *Inbox) MarkRead() {
	in.mu.Lock()
	in.unread = 0
	in.mu.Unlock()
}

// Close unsubscribes from the bus.
func (in *Inbox) Close() { in.stop() }
