package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponFixed      CouponType = "fixed"
	CouponPercentage CouponType = "percentage"
)

// Coupon is managed from the back-office only; checkout does not redeem it.
type Coupon struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	Type       CouponType      `json:"type"`
	Value      decimal.Decimal `json:"value"`
	ExpiryDate time.Time       `json:"expiry_date"`
	UsageLimit int             `json:"usage_limit"`
	UsedCount  int             `json:"used_count"`
	IsActive   bool            `json:"is_active"`
}

// Expired reports whether the coupon is past its expiry date at t.
func (c Coupon) Expired(t time.Time) bool {
	return !c.ExpiryDate.IsZero() && t.After(c.ExpiryDate)
}

func (c Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}
