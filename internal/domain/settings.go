package domain

import "github.com/shopspring/decimal"

type Settings struct {
	StoreName     string          `json:"store_name"`
	ContactPhone  string          `json:"contact_phone"`
	ContactEmail  string          `json:"contact_email"`
	ShippingInner decimal.Decimal `json:"shipping_inner"`
	ShippingOuter decimal.Decimal `json:"shipping_outer"`
}

// Session marks an admin as logged in. There is no expiry.
type Session struct {
	User  string `json:"user"`
	Token string `json:"token"`
}
