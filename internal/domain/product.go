package domain

import "github.com/shopspring/decimal"

// LowStockThreshold is the stock level under which the dashboard flags a product.
const LowStockThreshold = 10

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	// OriginalPrice is the pre-discount price shown struck through.
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string           `json:"category"`
	Images        []string         `json:"images"`
	Variations    []string         `json:"variations"`
	Stock         int              `json:"stock"`
	IsVisible     bool             `json:"is_visible"`
	IsFeatured    bool             `json:"is_featured,omitempty"`
}

// OnSale reports whether the product carries an original price above its price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}

func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) HasVariation(v string) bool {
	if len(p.Variations) == 0 {
		return v == ""
	}
	for _, x := range p.Variations {
		if x == v {
			return true
		}
	}
	return false
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// FindProduct returns the index of the product with the given id, or -1.
func FindProduct(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
