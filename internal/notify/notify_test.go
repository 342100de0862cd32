package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/slot"
	"github.com/MikeMC777/leathershop/internal/store"
)

func TestBusSubscribeUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []Event
	stop := bus.Subscribe(TopicCartChanged, func(e Event) { got = append(got, e) })

	bus.Publish(Event{Topic: TopicCartChanged, CartCount: 2})
	bus.Publish(Event{Topic: TopicOrderPlaced})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].CartCount)
	assert.Equal(t, SourceLocal, got[0].Source)
	assert.False(t, got[0].At.IsZero())

	stop()
	stop()
	bus.Publish(Event{Topic: TopicCartChanged})
	assert.Len(t, got, 1)
	assert.Zero(t, bus.Subscribers(TopicCartChanged))
}

func TestBusHandlersRunInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(TopicOrderPlaced, func(Event) { order = append(order, i) })
	}
	bus.Publish(Event{Topic: TopicOrderPlaced})
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestOrderFeedIgnoresKnownIDs(t *testing.T) {
	bus := NewBus()
	inbox := NewInbox(bus, 0)
	defer inbox.Close()
	feed := NewOrderFeed(bus, []domain.Order{{ID: "ORD-000001"}})

	fresh := feed.Apply([]domain.Order{{ID: "ORD-000001"}})
	assert.Empty(t, fresh)

	fresh = feed.Apply([]domain.Order{{ID: "ORD-000002"}, {ID: "ORD-000001"}})
	require.Len(t, fresh, 1)
	assert.Equal(t, "ORD-000002", fresh[0].ID)

	// Status change rewrites the slot without adding orders.
	fresh = feed.Apply([]domain.Order{{ID: "ORD-000002", Status: domain.OrderStatusShipped}, {ID: "ORD-000001"}})
	assert.Empty(t, fresh)
	assert.Equal(t, 1, inbox.Unread())
}

func TestOrderFeedBatchReportsEveryUnseenOrder(t *testing.T) {
	bus := NewBus()
	var events []Event
	bus.Subscribe(TopicOrderPlaced, func(e Event) { events = append(events, e) })
	feed := NewOrderFeed(bus, nil)

	fresh := feed.Apply([]domain.Order{{ID: "ORD-000003"}, {ID: "ORD-000002"}, {ID: "ORD-000001"}})
	require.Len(t, fresh, 3)
	assert.Equal(t, "ORD-000001", fresh[0].ID)
	assert.Equal(t, "ORD-000003", fresh[2].ID)

	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, SourceRemote, e.Source)
	}
}

func TestInboxDedupesAcrossPaths(t *testing.T) {
	bus := NewBus()
	inbox := NewInbox(bus, 0)
	defer inbox.Close()
	feed := NewOrderFeed(bus, nil)

	o := domain.Order{ID: "ORD-482913"}
	bus.Publish(Event{Topic: TopicOrderPlaced, Order: &o})
	feed.Apply([]domain.Order{o})

	items := inbox.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "ORD-482913", items[0].ID)
	assert.Equal(t, 1, inbox.Unread())

	inbox.MarkRead()
	assert.Zero(t, inbox.Unread())
}

func TestInboxNewestFirstWithLimit(t *testing.T) {
	bus := NewBus()
	inbox := NewInbox(bus, 2)
	defer inbox.Close()

	for _, id := range []string{"A", "B", "C"} {
		o := domain.Order{ID: id}
		bus.Publish(Event{Topic: TopicOrderPlaced, Order: &o})
	}
	items := inbox.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "C", items[0].ID)
	assert.Equal(t, "B", items[1].ID)
	// the unread badge never exceeds what the inbox holds
	assert.Equal(t, 2, inbox.Unread())

	inbox.MarkRead()
	o := domain.Order{ID: "D"}
	bus.Publish(Event{Topic: TopicOrderPlaced, Order: &o})
	assert.Equal(t, 1, inbox.Unread())
	assert.Len(t, inbox.Items(), 2)
}

// Another context places an order while the admin context watches: exactly
// one notification reaches the admin inbox.
func TestCrossContextOrderNotification(t *testing.T) {
	mem := slot.NewMemory()
	defer mem.Close()
	admin := store.New(mem, store.WithOrigin("admin"))
	shop := store.New(mem, store.WithOrigin("shop"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus := NewBus()
	inbox := NewInbox(bus, 0)
	defer inbox.Close()

	existing, err := admin.Orders(ctx)
	require.NoError(t, err)
	feed := NewOrderFeed(bus, existing)

	changes, err := admin.WatchOrders(ctx)
	require.NoError(t, err)
	got := make(chan Event, 4)
	bus.Subscribe(TopicOrderPlaced, func(e Event) { got <- e })
	go feed.Run(ctx, changes)

	require.NoError(t, shop.SaveOrders(ctx, []domain.Order{{ID: "ORD-482913", CustomerName: "Rahim"}}))

	select {
	case e := <-got:
		require.NotNil(t, e.Order)
		assert.Equal(t, "ORD-482913", e.Order.ID)
		assert.Equal(t, SourceRemote, e.Source)
	case <-ctx.Done():
		t.Fatal("no notification received")
	}

	select {
	case e := <-got:
		t.Fatalf("unexpected second notification for %s", e.Order.ID)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Len(t, inbox.Items(), 1)
}
