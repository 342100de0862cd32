package main

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/notify"
)

const (
	eventBuffer    = 16
	eventKeepAlive = 25 * time.Second
)

type eventPayload struct {
	Source    notify.Source `json:"source"`
	Order     *domain.Order `json:"order,omitempty"`
	CartCount int           `json:"cart_count"`
	At        time.Time     `json:"at"`
}

// eventsHandler streams bus events to an admin client as server-sent events.
// A slow client loses events rather than blocking publishers.
func eventsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch := make(chan notify.Event, eventBuffer)
		forward := func(e notify.Event) {
			select {
			case ch <- e:
			default:
			}
		}
		stopOrders := a.bus.Subscribe(notify.TopicOrderPlaced, forward)
		defer stopOrders()
		stopCart := a.bus.Subscribe(notify.TopicCartChanged, forward)
		defer stopCart()

		ctx := c.Request.Context()
		ping := time.NewTicker(eventKeepAlive)
		defer ping.Stop()

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		c.Stream(func(io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case e := <-ch:
				c.SSEvent(string(e.Topic), eventPayload{Source: e.Source, Order: e.Order, CartCount: e.CartCount, At: e.At})
				return true
			case <-ping.C:
				c.SSEvent("ping", "")
				return true
			}
		})
	}
}
