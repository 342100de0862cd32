package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// Tx gives typed access to the collection slots inside one atomic backend
// update. Only collections passed to a setter are written.
type Tx struct {
	products   []domain.Product
	categories []domain.Category
	orders     []domain.Order
	coupons    []domain.Coupon
	cart       []domain.CartItem

	writeProducts, writeCategories, writeOrders, writeCoupons, writeCart bool
}

func (tx *Tx) Products() []domain.Product    { return tx.products }
func (tx *Tx) Categories() []domain.Category { return tx.categories }
func (tx *Tx) Orders() []domain.Order        { return tx.orders }
func (tx *Tx) Coupons() []domain.Coupon      { return tx.coupons }
func (tx *Tx) Cart() []domain.CartItem       { return tx.cart }

func (tx *Tx) SetProducts(p []domain.Product)    { tx.products, tx.writeProducts = p, true }
func (tx *Tx) SetCategories(c []domain.Category) { tx.categories, tx.writeCategories = c, true }
func (tx *Tx) SetOrders(o []domain.Order)        { tx.orders, tx.writeOrders = o, true }
func (tx *Tx) SetCoupons(c []domain.Coupon)      { tx.coupons, tx.writeCoupons = c, true }
func (tx *Tx) SetCart(c []domain.CartItem)       { tx.cart, tx.writeCart = c, true }

// Tx runs fn against a consistent snapshot and commits its writes together.
// If fn returns an error nothing is written.
func (s *Store) Tx(ctx context.Context, fn func(*Tx) error) error {
	keys := []string{KeyProducts, KeyCategories, KeyOrders, KeyCoupons, KeyCart}
	return s.backend.Update(s.ctx(ctx), keys, func(cur map[string][]byte) (map[string][]byte, error) {
		tx := &Tx{
			products:   decode(KeyProducts, cur[KeyProducts], s.products),
			categories: decode(KeyCategories, cur[KeyCategories], s.categories),
			orders:     decode(KeyOrders, cur[KeyOrders], emptyOf[domain.Order]),
			coupons:    decode(KeyCoupons, cur[KeyCoupons], emptyOf[domain.Coupon]),
			cart:       decode(KeyCart, cur[KeyCart], emptyOf[domain.CartItem]),
		}
		if err := fn(tx); err != nil {
			return nil, err
		}

		out := make(map[string][]byte, len(keys))
		for _, w := range []struct {
			key   string
			write bool
			v     any
		}{
			{KeyProducts, tx.writeProducts, nonNil(tx.products)},
			{KeyCategories, tx.writeCategories, nonNil(tx.categories)},
			{KeyOrders, tx.writeOrders, nonNil(tx.orders)},
			{KeyCoupons, tx.writeCoupons, nonNil(tx.coupons)},
			{KeyCart, tx.writeCart, nonNil(tx.cart)},
		} {
			if !w.write {
				continue
			}
			raw, err := json.Marshal(w.v)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", w.key, err)
			}
			out[w.key] = raw
		}
		return out, nil
	})
}
