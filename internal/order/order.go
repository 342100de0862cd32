// Package order places, tracks and administers orders.
package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/notify"
	"github.com/MikeMC777/leathershop/internal/store"
)

const (
	idPrefix      = "ORD-"
	maxIDAttempts = 32
)

var ErrIDSpaceExhausted = errors.New("order: could not generate a unique order id")

type Manager struct {
	store *store.Store
	bus   *notify.Bus
	now   func() time.Time
	newID func() string
}

type Option func(*Manager)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDSource overrides the order id generator.
func WithIDSource(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// New builds an order manager. bus may be nil.
func New(s *store.Store, bus *notify.Bus, opts ...Option) *Manager {
	m := &Manager{
		store: s,
		bus:   bus,
		now:   func() time.Time { return time.Now().UTC() },
		newID: randomID,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func randomID() string {
	return fmt.Sprintf("%s%d", idPrefix, 100000+rand.IntN(900000))
}

// Place validates d, stores it as a new Pending order at the head of the
// orders collection and decrements the stock of every referenced product,
// all in one atomic update. Lines for products missing from the catalog do
// not touch stock.
func (m *Manager) Place(ctx context.Context, d Draft) (domain.Order, error) {
	if err := validateDraft(d); err != nil {
		return domain.Order{}, err
	}
	var placed domain.Order
	err := m.store.Tx(ctx, func(tx *store.Tx) error {
		var err error
		placed, err = m.place(tx, d)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	m.published(placed)
	return placed, nil
}

// Checkout turns the cart into an order and empties the cart in the same
// update.
func (m *Manager) Checkout(ctx context.Context, c Customer) (domain.Order, error) {
	fee, err := m.shippingFee(ctx, c.Zone)
	if err != nil {
		return domain.Order{}, err
	}
	var placed domain.Order
	err = m.store.Tx(ctx, func(tx *store.Tx) error {
		cart := tx.Cart()
		if len(cart) == 0 {
			return fmt.Errorf("%w: cart is empty", domain.ErrInvalid)
		}
		d := c.draft(fee)
		for _, it := range cart {
			d.Items = append(d.Items, it.OrderItem())
		}
		if err := validateDraft(d); err != nil {
			return err
		}
		if placed, err = m.place(tx, d); err != nil {
			return err
		}
		tx.SetCart(nil)
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	m.published(placed)
	if m.bus != nil {
		m.bus.Publish(notify.Event{Topic: notify.TopicCartChanged})
	}
	return placed, nil
}

// QuickOrder places a single-line order at the current catalog price.
func (m *Manager) QuickOrder(ctx context.Context, productID, variation string, qty int, c Customer) (domain.Order, error) {
	products, err := m.store.Products(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	i := domain.FindProduct(products, productID)
	if i < 0 || !products[i].IsVisible {
		return domain.Order{}, fmt.Errorf("product %q: %w", productID, domain.ErrNotFound)
	}
	p := products[i]
	if !p.HasVariation(variation) {
		return domain.Order{}, fmt.Errorf("%w: product %s has no variation %q", domain.ErrInvalid, p.ID, variation)
	}
	if qty < 1 {
		qty = 1
	}
	fee, err := m.shippingFee(ctx, c.Zone)
	if err != nil {
		return domain.Order{}, err
	}
	d := c.draft(fee)
	d.Items = []domain.OrderItem{{
		ProductID: p.ID,
		Name:      p.Name,
		Variation: variation,
		Quantity:  qty,
		Price:     p.Price,
	}}
	return m.Place(ctx, d)
}

func (m *Manager) place(tx *store.Tx, d Draft) (domain.Order, error) {
	orders := tx.Orders()
	id, err := m.uniqueID(orders)
	if err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{
		ID:           id,
		CustomerName: strings.TrimSpace(d.CustomerName),
		Phone:        strings.TrimSpace(d.Phone),
		Address:      strings.TrimSpace(d.Address),
		Items:        d.Items,
		Status:       domain.OrderStatusPending,
		CreatedAt:    m.now(),
		ShippingFee:  d.ShippingFee,
		Note:         strings.TrimSpace(d.Note),
	}
	o.TotalAmount = o.ComputeTotal()

	products := tx.Products()
	for _, it := range o.Items {
		i := domain.FindProduct(products, it.ProductID)
		if i < 0 {
			continue
		}
		if products[i].Stock < it.Quantity {
			return domain.Order{}, fmt.Errorf("%w: %s has %d left, %d ordered",
				domain.ErrInsufficientStock, products[i].Name, products[i].Stock, it.Quantity)
		}
		products[i].Stock -= it.Quantity
	}
	tx.SetProducts(products)
	tx.SetOrders(append([]domain.Order{o}, orders...))
	return o, nil
}

func (m *Manager) uniqueID(orders []domain.Order) (string, error) {
	taken := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		taken[strings.ToUpper(o.ID)] = struct{}{}
	}
	for range maxIDAttempts {
		id := m.newID()
		if _, ok := taken[strings.ToUpper(id)]; !ok {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func (m *Manager) published(o domain.Order) {
	log.Info().Str("order", o.ID).Str("total", o.TotalAmount.String()).Int("items", len(o.Items)).Msg("order placed")
	if m.bus != nil {
		m.bus.Publish(notify.Event{Topic: notify.TopicOrderPlaced, Order: &o})
	}
}

func (m *Manager) shippingFee(ctx context.Context, z Zone) (decimal.Decimal, error) {
	settings, err := m.store.Settings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	switch z {
	case "", ZoneInner:
		return settings.ShippingInner, nil
	case ZoneOuter:
		return settings.ShippingOuter, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown shipping zone %q", domain.ErrInvalid, z)
	}
}

func (c Customer) draft(fee decimal.Decimal) Draft {
	return Draft{
		CustomerName: c.Name,
		Phone:        c.Phone,
		Address:      c.Address,
		ShippingFee:  fee,
		Note:         c.Note,
	}
}

func validateDraft(d Draft) error {
	var missing []string
	if strings.TrimSpace(d.CustomerName) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(d.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrInvalid, strings.Join(missing, ", "))
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domain.ErrInvalid)
	}
	for _, it := range d.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity of %s must be at least 1", domain.ErrInvalid, it.ProductID)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: price of %s is negative", domain.ErrInvalid, it.ProductID)
		}
	}
	if d.ShippingFee.IsNegative() {
		return fmt.Errorf("%w: shipping fee is negative", domain.ErrInvalid)
	}
	return nil
}

// UpdateStatus sets the status of order id. Any status may follow any other.
func (m *Manager) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalid, status)
	}
	var updated domain.Order
	err := m.store.Tx(ctx, func(tx *store.Tx) error {
		orders := tx.Orders()
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
				updated = orders[i]
				tx.SetOrders(orders)
				return nil
			}
		}
		return fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	})
	if err != nil {
		return domain.Order{}, err
	}
	log.Info().Str("order", id).Str("status", string(status)).Msg("order status updated")
	return updated, nil
}

// Delete removes order id. Stock taken by the order is not given back.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Tx(ctx, func(tx *store.Tx) error {
		orders := tx.Orders()
		for i := range orders {
			if orders[i].ID == id {
				tx.SetOrders(append(orders[:i:i], orders[i+1:]...))
				return nil
			}
		}
		return fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
	})
}

// List returns the orders matching f, newest first.
func (m *Manager) List(ctx context.Context, f Filter) ([]domain.Order, error) {
	orders, err := m.store.Orders(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.ID), search) &&
			!strings.Contains(strings.ToLower(o.CustomerName), search) &&
			!strings.Contains(o.Phone, search) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// Find is the customer tracking lookup: the order id matches ignoring case
// and a leading '#', and the stored phone must contain the given digits.
// Blank inputs never match.
func (m *Manager) Find(ctx context.Context, idInput, phoneInput string) (domain.Order, bool, error) {
	id := strings.TrimPrefix(strings.TrimSpace(idInput), "#")
	phone := strings.TrimSpace(phoneInput)
	if id == "" || phone == "" {
		return domain.Order{}, false, nil
	}
	orders, err := m.store.Orders(ctx)
	if err != nil {
		return domain.Order{}, false, err
	}
	for _, o := range orders {
		if strings.EqualFold(strings.TrimPrefix(o.ID, "#"), id) && strings.Contains(o.Phone, phone) {
			return o, true, nil
		}
	}
	return domain.Order{}, false, nil
}
