package product

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
)

type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
)

// Query narrows the storefront listing.
type Query struct {
	// Q matches the product name or category label, ignoring case.
	Q        string
	MaxPrice *decimal.Decimal
	HotDeals bool
	Sort     Sort
}

// ListResponse is the storefront product listing.
// swagger:model ListResponse
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// sort applied
	Sort  Sort             `json:"sort"`
	Total int              `json:"total"`
	Items []domain.Product `json:"items"`
}

// DetailResponse is a product with up to five related products.
// swagger:model DetailResponse
type DetailResponse struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

// ProductRequest payload of creation or full update.
// swagger:model ProductRequest
type ProductRequest struct {
	Name          string           `json:"name"           example:"Classic Premium Black Casual"`
	Description   string           `json:"description"    example:"Genuine leather"`
	Price         decimal.Decimal  `json:"price"          example:"1990"`
	OriginalPrice *decimal.Decimal `json:"original_price" example:"2490"`
	Category      string           `json:"category"       example:"Casual Shoes"`
	Images        []string         `json:"images"`
	Variations    []string         `json:"variations"`
	Stock         int              `json:"stock"          example:"50"`
	IsVisible     *bool            `json:"is_visible"`
	IsFeatured    bool             `json:"is_featured"`
}

// Product converts the request. Products are visible unless stated otherwise.
func (r ProductRequest) Product(id string) domain.Product {
	visible := true
	if r.IsVisible != nil {
		visible = *r.IsVisible
	}
	return domain.Product{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Category:      r.Category,
		Images:        r.Images,
		Variations:    r.Variations,
		Stock:         r.Stock,
		IsVisible:     visible,
		IsFeatured:    r.IsFeatured,
	}
}

// CategoryRequest payload of category creation or update.
// swagger:model CategoryRequest
type CategoryRequest struct {
	Name  string `json:"name"  example:"LOAFER"`
	Image string `json:"image" example:"https://picsum.photos/seed/loafer/400/400"`
}
