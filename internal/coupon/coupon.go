// Package coupon manages discount coupons from the back-office.
package coupon

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/store"
)

const defaultUsageLimit = 100

var hundred = decimal.NewFromInt(100)

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Request payload of coupon creation or update.
// swagger:model CouponRequest
type Request struct {
	Code       string          `json:"code"        example:"EID10"`
	Type       string          `json:"type"        example:"percentage"`
	Value      decimal.Decimal `json:"value"       example:"10"`
	ExpiryDate time.Time       `json:"expiry_date" example:"2027-01-31T00:00:00Z"`
	UsageLimit int             `json:"usage_limit" example:"100"`
	IsActive   *bool           `json:"is_active"`
}

func (r Request) Coupon() domain.Coupon {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	limit := r.UsageLimit
	if limit == 0 {
		limit = defaultUsageLimit
	}
	return domain.Coupon{
		Code:       strings.ToUpper(strings.TrimSpace(r.Code)),
		Type:       domain.CouponType(strings.ToLower(strings.TrimSpace(r.Type))),
		Value:      r.Value,
		ExpiryDate: r.ExpiryDate,
		UsageLimit: limit,
		IsActive:   active,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.store.Coupons(ctx)
}

// Create stores c first in the list with a fresh id and no uses.
func (s *Service) Create(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	c.ID = uuid.NewString()
	c.UsedCount = 0
	err := s.mutate(ctx, func(coupons []domain.Coupon) ([]domain.Coupon, error) {
		if err := validate(c, coupons); err != nil {
			return nil, err
		}
		return append([]domain.Coupon{c}, coupons...), nil
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	return c, nil
}

// Update replaces coupon id, keeping its used count.
func (s *Service) Update(ctx context.Context, id string, c domain.Coupon) (domain.Coupon, error) {
	c.ID = id
	err := s.mutate(ctx, func(coupons []domain.Coupon) ([]domain.Coupon, error) {
		i := find(coupons, id)
		if i < 0 {
			return nil, fmt.Errorf("coupon %q: %w", id, domain.ErrNotFound)
		}
		c.UsedCount = coupons[i].UsedCount
		if err := validate(c, coupons); err != nil {
			return nil, err
		}
		coupons[i] = c
		return coupons, nil
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(coupons []domain.Coupon) ([]domain.Coupon, error) {
		i := find(coupons, id)
		if i < 0 {
			return nil, fmt.Errorf("coupon %q: %w", id, domain.ErrNotFound)
		}
		return slices.Delete(coupons, i, i+1), nil
	})
}

// Toggle flips the active flag of coupon id.
func (s *Service) Toggle(ctx context.Context, id string) (domain.Coupon, error) {
	var out domain.Coupon
	err := s.mutate(ctx, func(coupons []domain.Coupon) ([]domain.Coupon, error) {
		i := find(coupons, id)
		if i < 0 {
			return nil, fmt.Errorf("coupon %q: %w", id, domain.ErrNotFound)
		}
		coupons[i].IsActive = !coupons[i].IsActive
		out = coupons[i]
		return coupons, nil
	})
	return out, err
}

// Replace overwrites the whole coupon list. Missing ids are generated; ids
// and codes must be unique.
func (s *Service) Replace(ctx context.Context, coupons []domain.Coupon) ([]domain.Coupon, error) {
	seen := make(map[string]struct{}, len(coupons))
	for i := range coupons {
		if coupons[i].ID == "" {
			coupons[i].ID = uuid.NewString()
		}
		if _, dup := seen[coupons[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate coupon id %q", domain.ErrInvalid, coupons[i].ID)
		}
		seen[coupons[i].ID] = struct{}{}
		if err := validate(coupons[i], coupons); err != nil {
			return nil, err
		}
	}
	err := s.mutate(ctx, func([]domain.Coupon) ([]domain.Coupon, error) {
		return coupons, nil
	})
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// mutate rewrites the coupons slot inside a store transaction.
func (s *Service) mutate(ctx context.Context, fn func([]domain.Coupon) ([]domain.Coupon, error)) error {
	return s.store.Tx(ctx, func(tx *store.Tx) error {
		coupons, err := fn(tx.Coupons())
		if err != nil {
			return err
		}
		tx.SetCoupons(coupons)
		return nil
	})
}

// Usable reports whether the coupon with the given code is active, unexpired
// and under its usage limit. Coupons are not redeemed at checkout.
func (s *Service) Usable(ctx context.Context, code string) (domain.Coupon, bool, error) {
	coupons, err := s.store.Coupons(ctx)
	if err != nil {
		return domain.Coupon{}, false, err
	}
	code = strings.TrimSpace(code)
	for _, c := range coupons {
		if strings.EqualFold(c.Code, code) {
			return c, c.IsActive && !c.Expired(s.now()) && !c.Exhausted(), nil
		}
	}
	return domain.Coupon{}, false, nil
}

func find(coupons []domain.Coupon, id string) int {
	return slices.IndexFunc(coupons, func(c domain.Coupon) bool { return c.ID == id })
}

// validate checks c on its own and against the codes of others.
func validate(c domain.Coupon, others []domain.Coupon) error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("%w: coupon code required", domain.ErrInvalid)
	}
	if !c.Value.IsPositive() {
		return fmt.Errorf("%w: coupon value must be positive", domain.ErrInvalid)
	}
	switch c.Type {
	case domain.CouponFixed:
	case domain.CouponPercentage:
		if c.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage above 100", domain.ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown coupon type %q", domain.ErrInvalid, c.Type)
	}
	if c.UsageLimit < 0 {
		return fmt.Errorf("%w: usage limit must not be negative", domain.ErrInvalid)
	}
	for _, o := range others {
		if o.ID != c.ID && strings.EqualFold(o.Code, c.Code) {
			return fmt.Errorf("%w: coupon code %s already exists", domain.ErrInvalid, c.Code)
		}
	}
	return nil
}
