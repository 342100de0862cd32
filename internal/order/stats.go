package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
)

const recentOrders = 5

// Stats summarizes orders and stock for the dashboard. Revenue counts
// delivered orders only.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	orders, err := m.store.Orders(ctx)
	if err != nil {
		return Stats{}, err
	}
	products, err := m.store.Products(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Revenue:     decimal.Zero,
		TotalOrders: len(orders),
		ByStatus:    make(map[domain.OrderStatus]int, len(domain.OrderStatuses())),
	}
	for _, s := range domain.OrderStatuses() {
		st.ByStatus[s] = 0
	}
	for _, o := range orders {
		st.ByStatus[o.Status]++
		if o.Status == domain.OrderStatusDelivered {
			st.Revenue = st.Revenue.Add(o.TotalAmount)
		}
	}
	st.Pending = st.ByStatus[domain.OrderStatusPending]
	for _, p := range products {
		if p.Stock < domain.LowStockThreshold {
			st.LowStock++
		}
	}
	n := min(recentOrders, len(orders))
	st.RecentOrders = append([]domain.Order{}, orders[:n]...)
	return st, nil
}
