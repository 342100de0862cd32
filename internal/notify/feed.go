package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// OrderFeed turns rewrites of the orders slot made by other contexts into
// order.placed events. Orders whose ids it has already seen are ignored, so
// replays and unrelated rewrites (status changes, deletions) stay silent.
type OrderFeed struct {
	bus   *Bus
	mu    sync.Mutex
	known map[string]struct{}
}

// NewOrderFeed starts out knowing the ids of existing.
func NewOrderFeed(bus *Bus, existing []domain.Order) *OrderFeed {
	f := &OrderFeed{bus: bus, known: make(map[string]struct{}, len(existing))}
	for _, o := range existing {
		f.known[o.ID] = struct{}{}
	}
	return f
}

// Apply diffs a newest-first orders collection against the known ids and
// publishes every unseen order, oldest first. A batch write of several orders
// therefore yields one event per order.
func (f *OrderFeed) Apply(orders []domain.Order) []domain.Order {
	f.mu.Lock()
	var fresh []domain.Order
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		if _, ok := f.known[o.ID]; ok {
			continue
		}
		f.known[o.ID] = struct{}{}
		fresh = append(fresh, o)
	}
	f.mu.Unlock()

	for i := range fresh {
		o := fresh[i]
		f.bus.Publish(Event{Topic: TopicOrderPlaced, Source: SourceRemote, Order: &o})
	}
	return fresh
}

// Remember marks id as known without publishing, e.g. for orders placed in
// this context.
func (f *OrderFeed) Remember(id string) {
	f.mu.Lock()
	f.known[id] = struct{}{}
	f.mu.Unlock()
}

// Run applies each collection received on changes until the channel closes
// or ctx is done.
func (f *OrderFeed) Run(ctx context.Context, changes <-chan []domain.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case orders, ok := <-changes:
			if !ok {
				return
			}
			if fresh := f.Apply(orders); len(fresh) > 0 {
				log.Info().Int("orders", len(fresh)).Msg("new orders from another context")
			}
		}
	}
}
