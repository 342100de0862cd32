package domain

import "github.com/shopspring/decimal"

// CartItem is a cart line. The same product in two variations is two lines.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Variation string          `json:"variation"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

// CartItemID builds the composite line id from a product id and a variation label.
func CartItemID(productID, variation string) string {
	return productID + "-" + variation
}

func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// OrderItem snapshots the line.
func (c CartItem) OrderItem() OrderItem {
	return OrderItem{
		ProductID: c.ProductID,
		Name:      c.Name,
		Variation: c.Variation,
		Quantity:  c.Quantity,
		Price:     c.Price,
	}
}
