package store

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
)

// SeedProducts is the catalog shown before the admin saves any product.
func SeedProducts() []domain.Product {
	orig1 := decimal.NewFromInt(2490)
	orig2 := decimal.NewFromInt(1790)
	return []domain.Product{
		{
			ID:            "p1",
			Name:          "Classic Premium Black Casual",
			Description:   "A minimal and clean look for everyday comfort. Made from genuine leather.",
			Price:         decimal.NewFromInt(1990),
			OriginalPrice: &orig1,
			Category:      "Casual Shoes",
			Images:        []string{"https://picsum.photos/seed/shoe1/600/600"},
			Variations:    []string{"39", "40", "41", "42", "43"},
			Stock:         50,
			IsVisible:     true,
			IsFeatured:    true,
		},
		{
			ID:            "p2",
			Name:          "Men's Genuine Leather Cycle Shoe",
			Description:   "Perfect combination of cycle shoe design and premium leather durability.",
			Price:         decimal.NewFromInt(1430),
			OriginalPrice: &orig2,
			Category:      "Cycle Shoes",
			Images:        []string{"https://picsum.photos/seed/shoe2/600/600"},
			Variations:    []string{"40", "41", "42"},
			Stock:         25,
			IsVisible:     true,
			IsFeatured:    true,
		},
	}
}

func SeedCategories() []domain.Category {
	return []domain.Category{
		{ID: "c1", Name: "SACCHI", Image: "https://picsum.photos/seed/sacchi/400/400"},
		{ID: "c2", Name: "LOAFER", Image: "https://picsum.photos/seed/loafer/400/400"},
		{ID: "c3", Name: "FORMAL SHOES", Image: "https://picsum.photos/seed/formal/400/400"},
		{ID: "c4", Name: "CASUAL SHOES", Image: "https://picsum.photos/seed/casual/400/400"},
		{ID: "c5", Name: "CYCLE SHOES", Image: "https://picsum.photos/seed/cycle/400/400"},
		{ID: "c6", Name: "HALF LOAFER", Image: "https://picsum.photos/seed/half/400/400"},
		{ID: "c7", Name: "TARSAL", Image: "https://picsum.photos/seed/tarsal/400/400"},
		{ID: "c8", Name: "SANDAL", Image: "https://picsum.photos/seed/sandal/400/400"},
		{ID: "c9", Name: "BOOT", Image: "https://picsum.photos/seed/boot/400/400"},
		{ID: "c10", Name: "SHOE CARE ESSENTIALS", Image: "https://picsum.photos/seed/care/400/400"},
	}
}

func DefaultSettings() domain.Settings {
	return domain.Settings{
		StoreName:     "LeatherShop",
		ContactPhone:  "+880 1709 306560",
		ContactEmail:  "support@leathershop.com",
		ShippingInner: decimal.NewFromInt(70),
		ShippingOuter: decimal.NewFromInt(120),
	}
}
