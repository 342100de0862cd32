// Package cart manages the shopping cart slot.
package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/notify"
	"github.com/MikeMC777/leathershop/internal/store"
)

type Manager struct {
	store        *store.Store
	bus          *notify.Bus
	stockCeiling bool
}

type Option func(*Manager)

// WithStockCeiling caps UpdateQuantity at the catalog stock of the product
// when the product is known and in stock.
func WithStockCeiling() Option {
	return func(m *Manager) { m.stockCeiling = true }
}

// New builds a cart manager. bus may be nil.
func New(s *store.Store, bus *notify.Bus, opts ...Option) *Manager {
	m := &Manager{store: s, bus: bus}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Items(ctx context.Context) ([]domain.CartItem, error) {
	return m.store.Cart(ctx)
}

// Add merges item into the cart. A line with the same product and variation
// gets its quantity increased; otherwise a new line is appended.
func (m *Manager) Add(ctx context.Context, item domain.CartItem) ([]domain.CartItem, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.ID = domain.CartItemID(item.ProductID, item.Variation)

	return m.mutate(ctx, func(tx *store.Tx) ([]domain.CartItem, bool) {
		items := tx.Cart()
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity += item.Quantity
				return items, true
			}
		}
		return append(items, item), true
	})
}

// Remove drops the line with the given id. Removing an absent line is not an
// error.
func (m *Manager) Remove(ctx context.Context, id string) ([]domain.CartItem, error) {
	return m.mutate(ctx, func(tx *store.Tx) ([]domain.CartItem, bool) {
		items := tx.Cart()
		kept := items[:0]
		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		return kept, true
	})
}

// UpdateQuantity sets the quantity of a line, clamped to at least 1. Unknown
// ids leave the cart untouched.
func (m *Manager) UpdateQuantity(ctx context.Context, id string, qty int) ([]domain.CartItem, error) {
	if qty < 1 {
		qty = 1
	}
	return m.mutate(ctx, func(tx *store.Tx) ([]domain.CartItem, bool) {
		items := tx.Cart()
		idx := -1
		for i := range items {
			if items[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return items, false
		}
		q := qty
		if m.stockCeiling {
			products := tx.Products()
			if i := domain.FindProduct(products, items[idx].ProductID); i >= 0 {
				if stock := products[i].Stock; stock >= 1 && q > stock {
					q = stock
				}
			}
		}
		items[idx].Quantity = q
		return items, true
	})
}

func (m *Manager) Clear(ctx context.Context) error {
	_, err := m.mutate(ctx, func(*store.Tx) ([]domain.CartItem, bool) {
		return nil, true
	})
	return err
}

// Count is the cart badge: the sum of all line quantities.
func (m *Manager) Count(ctx context.Context) (int, error) {
	items, err := m.store.Cart(ctx)
	if err != nil {
		return 0, err
	}
	return Count(items), nil
}

func (m *Manager) Subtotal(ctx context.Context) (decimal.Decimal, error) {
	items, err := m.store.Cart(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return Subtotal(items), nil
}

func Count(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// mutate applies fn to the cart inside a store transaction. fn reports
// whether the cart changed; only a change is written and published.
func (m *Manager) mutate(ctx context.Context, fn func(*store.Tx) ([]domain.CartItem, bool)) ([]domain.CartItem, error) {
	var (
		items   []domain.CartItem
		changed bool
	)
	err := m.store.Tx(ctx, func(tx *store.Tx) error {
		items, changed = fn(tx)
		if changed {
			tx.SetCart(items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed && m.bus != nil {
		m.bus.Publish(notify.Event{Topic: notify.TopicCartChanged, CartCount: Count(items)})
	}
	return items, nil
}
