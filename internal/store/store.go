// Package store is the typed façade over the persisted slots. Every getter
// falls back to a documented default when a slot is absent or holds data that
// cannot be decoded; only backend failures are returned as errors.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/slot"
)

const (
	KeyProducts   = "shop_products"
	KeyOrders     = "shop_orders"
	KeyCoupons    = "shop_coupons"
	KeyCategories = "shop_categories"
	KeyCart       = "shop_cart"
	KeySettings   = "shop_settings"
	KeyAuth       = "shop_admin_auth"
)

var ErrWatchUnsupported = errors.New("store: backend cannot watch slots")

type Store struct {
	backend    slot.Backend
	origin     string
	products   func() []domain.Product
	categories func() []domain.Category
}

type Option func(*Store)

// WithOrigin names the browsing context this store writes as. Defaults to a
// random id.
func WithOrigin(id string) Option {
	return func(s *Store) { s.origin = id }
}

// WithCatalog replaces the seed catalog returned for empty product and
// category slots.
func WithCatalog(products []domain.Product, categories []domain.Category) Option {
	return func(s *Store) {
		s.products = func() []domain.Product { return append([]domain.Product(nil), products...) }
		s.categories = func() []domain.Category { return append([]domain.Category(nil), categories...) }
	}
}

func New(b slot.Backend, opts ...Option) *Store {
	s := &Store{
		backend:    b,
		origin:     uuid.NewString(),
		products:   SeedProducts,
		categories: SeedCategories,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Origin() string { return s.origin }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

func (s *Store) ctx(ctx context.Context) context.Context {
	return slot.WithOrigin(ctx, s.origin)
}

// load decodes key into a T, or returns def() when the slot is absent or malformed.
func load[T any](ctx context.Context, s *Store, key string, def func() T) (T, error) {
	raw, err := s.backend.Get(s.ctx(ctx), key)
	if errors.Is(err, slot.ErrNotFound) {
		return def(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s: %w", key, err)
	}
	return decode(key, raw, def), nil
}

// decode treats a JSON null like an absent slot.
func decode[T any](key string, raw []byte, def func() T) T {
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def()
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Str("slot", key).Msg("malformed slot, using default")
		return def()
	}
	return v
}

func save[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(s.ctx(ctx), key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	return load(ctx, s, KeyProducts, s.products)
}

func (s *Store) SaveProducts(ctx context.Context, products []domain.Product) error {
	return save(ctx, s, KeyProducts, nonNil(products))
}

func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	return load(ctx, s, KeyCategories, s.categories)
}

func (s *Store) SaveCategories(ctx context.Context, categories []domain.Category) error {
	return save(ctx, s, KeyCategories, nonNil(categories))
}

// Orders returns the orders newest-first.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	return load(ctx, s, KeyOrders, emptyOf[domain.Order])
}

func (s *Store) SaveOrders(ctx context.Context, orders []domain.Order) error {
	return save(ctx, s, KeyOrders, nonNil(orders))
}

func (s *Store) Coupons(ctx context.Context) ([]domain.Coupon, error) {
	return load(ctx, s, KeyCoupons, emptyOf[domain.Coupon])
}

func (s *Store) SaveCoupons(ctx context.Context, coupons []domain.Coupon) error {
	return save(ctx, s, KeyCoupons, nonNil(coupons))
}

func (s *Store) Cart(ctx context.Context) ([]domain.CartItem, error) {
	return load(ctx, s, KeyCart, emptyOf[domain.CartItem])
}

func (s *Store) SaveCart(ctx context.Context, items []domain.CartItem) error {
	return save(ctx, s, KeyCart, nonNil(items))
}

func (s *Store) Settings(ctx context.Context) (domain.Settings, error) {
	return load(ctx, s, KeySettings, DefaultSettings)
}

func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return save(ctx, s, KeySettings, settings)
}

// Session reports the stored admin session, if any. A malformed record counts
// as logged out.
func (s *Store) Session(ctx context.Context) (domain.Session, bool, error) {
	raw, err := s.backend.Get(s.ctx(ctx), KeyAuth)
	if errors.Is(err, slot.ErrNotFound) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("read %s: %w", KeyAuth, err)
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Warn().Err(err).Str("slot", KeyAuth).Msg("malformed session, treating as logged out")
		return domain.Session{}, false, nil
	}
	return sess, true, nil
}

func (s *Store) SaveSession(ctx context.Context, sess domain.Session) error {
	return save(ctx, s, KeyAuth, sess)
}

func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.backend.Delete(s.ctx(ctx), KeyAuth); err != nil {
		return fmt.Errorf("delete %s: %w", KeyAuth, err)
	}
	return nil
}

func emptyOf[T any]() []T { return []T{} }

// nonNil keeps empty collections serialized as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
