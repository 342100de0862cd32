// Package product serves the storefront catalog and its admin management.
package product

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/store"
)

const maxRelated = 5

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// List returns visible products matching q. SortNewest keeps the stored
// order, which is newest first.
func (s *Service) List(ctx context.Context, q Query) ([]domain.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.IsVisible {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if q.HotDeals && !p.OnSale() {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return b.Price.Cmp(a.Price) })
	}
	return out, nil
}

func (s *Service) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.IsVisible && p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns a visible product and its related products: other visible
// products of the same category, at most five.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, []domain.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return domain.Product{}, nil, err
	}
	i := domain.FindProduct(products, id)
	if i < 0 || !products[i].IsVisible {
		return domain.Product{}, nil, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
	}
	p := products[i]
	related := make([]domain.Product, 0, maxRelated)
	for _, r := range products {
		if len(related) == maxRelated {
			break
		}
		if r.Category == p.Category && r.ID != p.ID && r.IsVisible {
			related = append(related, r)
		}
	}
	return p, related, nil
}

// All is the admin listing: every product, hidden ones included, optionally
// filtered by name or category.
func (s *Service) All(ctx context.Context, search string) ([]domain.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return products, nil
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.Category), search) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create validates p, gives it a fresh id and puts it first in the catalog.
func (s *Service) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}
	err := s.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		return append([]domain.Product{p}, products...), nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	log.Info().Str("product", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

// Update replaces product id with p.
func (s *Service) Update(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	p.ID = id
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}
	err := s.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		i := domain.FindProduct(products, id)
		if i < 0 {
			return nil, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
		}
		products[i] = p
		return products, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		i := domain.FindProduct(products, id)
		if i < 0 {
			return nil, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
		}
		return slices.Delete(products, i, i+1), nil
	})
}

// ToggleVisibility flips whether the storefront shows product id.
func (s *Service) ToggleVisibility(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := s.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		i := domain.FindProduct(products, id)
		if i < 0 {
			return nil, fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
		}
		products[i].IsVisible = !products[i].IsVisible
		out = products[i]
		return products, nil
	})
	return out, err
}

// Replace overwrites the whole catalog. Missing ids are generated.
func (s *Service) Replace(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		if _, dup := seen[products[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", domain.ErrInvalid, products[i].ID)
		}
		seen[products[i].ID] = struct{}{}
		if err := validateProduct(products[i]); err != nil {
			return nil, err
		}
	}
	err := s.mutate(ctx, func([]domain.Product) ([]domain.Product, error) {
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// mutate rewrites the products slot inside a store transaction.
func (s *Service) mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) error {
	return s.store.Tx(ctx, func(tx *store.Tx) error {
		products, err := fn(tx.Products())
		if err != nil {
			return err
		}
		tx.SetProducts(products)
		return nil
	})
}

func validateProduct(p domain.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: product name required", domain.ErrInvalid)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalid)
	case p.OriginalPrice != nil && p.OriginalPrice.IsNegative():
		return fmt.Errorf("%w: original price must not be negative", domain.ErrInvalid)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", domain.ErrInvalid)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: at least one image required", domain.ErrInvalid)
	}
	return nil
}
