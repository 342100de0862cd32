package order

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// Zone selects the shipping fee from the store settings.
type Zone string

const (
	ZoneInner Zone = "inner"
	ZoneOuter Zone = "outer"
)

// Customer is the contact block collected at checkout.
type Customer struct {
	Name    string
	Phone   string
	Address string
	Zone    Zone
	Note    string
}

// Draft is an order before it is given an id, status and timestamp.
type Draft struct {
	CustomerName string
	Phone        string
	Address      string
	Items        []domain.OrderItem
	ShippingFee  decimal.Decimal
	Note         string
}

// Filter narrows List. An empty Status matches every status; Search matches
// the id or customer name case-insensitively, or the phone as a substring.
type Filter struct {
	Status domain.OrderStatus
	Search string
}

// Stats feeds the admin dashboard.
type Stats struct {
	Revenue      decimal.Decimal            `json:"revenue"`
	TotalOrders  int                        `json:"total_orders"`
	Pending      int                        `json:"pending"`
	LowStock     int                        `json:"low_stock"`
	ByStatus     map[domain.OrderStatus]int `json:"by_status"`
	RecentOrders []domain.Order             `json:"recent_orders"`
}
