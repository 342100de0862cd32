package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/auth"
	"github.com/MikeMC777/leathershop/internal/cart"
	"github.com/MikeMC777/leathershop/internal/config"
	"github.com/MikeMC777/leathershop/internal/coupon"
	"github.com/MikeMC777/leathershop/internal/httpx"
	"github.com/MikeMC777/leathershop/internal/notify"
	"github.com/MikeMC777/leathershop/internal/order"
	"github.com/MikeMC777/leathershop/internal/product"
	"github.com/MikeMC777/leathershop/internal/slot"
	"github.com/MikeMC777/leathershop/internal/slot/pgslot"
	"github.com/MikeMC777/leathershop/internal/slot/redisslot"
	"github.com/MikeMC777/leathershop/internal/slot/sqlslot"
	"github.com/MikeMC777/leathershop/internal/store"
)

const inboxLimit = 50

type app struct {
	store   *store.Store
	catalog *product.Service
	cart    *cart.Manager
	orders  *order.Manager
	coupons *coupon.Service
	gate    *auth.Gate
	bus     *notify.Bus
	inbox   *notify.Inbox
	limiter *httpx.RateLimiter
}

func openBackend(ctx context.Context, cfg config.Config) (slot.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlslot.Open(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return pgslot.Connect(ctx, cfg.PostgresDSN)
	case config.BackendRedis:
		b := redisslot.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "leathershop:")
		if err := b.Ping(ctx); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return b, nil
	default:
		return slot.NewMemory(), nil
	}
}

// newApp wires the services over st. The returned app is ready to serve;
// start must be called to follow order writes from other processes.
func newApp(ctx context.Context, cfg config.Config, st *store.Store) (*app, error) {
	verifier, err := auth.NewStaticVerifier(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		return nil, err
	}
	gate, err := auth.NewGate(st, verifier, []byte(cfg.SessionSecret))
	if err != nil {
		return nil, err
	}

	bus := notify.NewBus()
	var cartOpts []cart.Option
	if cfg.CartStockCeiling {
		cartOpts = append(cartOpts, cart.WithStockCeiling())
	}
	return &app{
		store:   st,
		catalog: product.NewService(st),
		cart:    cart.New(st, bus, cartOpts...),
		orders:  order.New(st, bus),
		coupons: coupon.NewService(st),
		gate:    gate,
		bus:     bus,
		inbox:   notify.NewInbox(bus, inboxLimit),
		limiter: httpx.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
	}, nil
}

// start feeds orders placed by other processes sharing the backend into the
// bus. Backends without a change feed only see local orders. Orders written
// between the first read and the subscription are caught by a second read.
func (a *app) start(ctx context.Context) error {
	existing, err := a.store.Orders(ctx)
	if err != nil {
		return err
	}
	feed := notify.NewOrderFeed(a.bus, existing)
	a.bus.Subscribe(notify.TopicOrderPlaced, func(e notify.Event) {
		if e.Source == notify.SourceLocal && e.Order != nil {
			feed.Remember(e.Order.ID)
		}
	})

	changes, err := a.store.WatchOrders(ctx)
	if errors.Is(err, store.ErrWatchUnsupported) {
		log.Info().Msg("store backend has no change feed, cross-process order notifications disabled")
		return nil
	}
	if err != nil {
		return err
	}
	latest, err := a.store.Orders(ctx)
	if err != nil {
		return err
	}
	if missed := feed.Apply(latest); len(missed) > 0 {
		log.Info().Int("orders", len(missed)).Msg("orders placed while subscribing")
	}
	go feed.Run(ctx, changes)
	return nil
}
