package product

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/store"
)

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories(ctx)
}

// CreateCategory appends a category with a fresh id.
func (s *Service) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if err := validateCategory(c); err != nil {
		return domain.Category{}, err
	}
	c.ID = uuid.NewString()
	err := s.mutateCategories(ctx, func(categories []domain.Category) ([]domain.Category, error) {
		return append(categories, c), nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, c domain.Category) (domain.Category, error) {
	if err := validateCategory(c); err != nil {
		return domain.Category{}, err
	}
	c.ID = id
	err := s.mutateCategories(ctx, func(categories []domain.Category) ([]domain.Category, error) {
		i := findCategory(categories, id)
		if i < 0 {
			return nil, fmt.Errorf("category %q: %w", id, domain.ErrNotFound)
		}
		categories[i] = c
		return categories, nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes the category. Products keep their category label.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.mutateCategories(ctx, func(categories []domain.Category) ([]domain.Category, error) {
		i := findCategory(categories, id)
		if i < 0 {
			return nil, fmt.Errorf("category %q: %w", id, domain.ErrNotFound)
		}
		return slices.Delete(categories, i, i+1), nil
	})
}

func (s *Service) ReplaceCategories(ctx context.Context, categories []domain.Category) ([]domain.Category, error) {
	seen := make(map[string]struct{}, len(categories))
	for i := range categories {
		if categories[i].ID == "" {
			categories[i].ID = uuid.NewString()
		}
		if _, dup := seen[categories[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", domain.ErrInvalid, categories[i].ID)
		}
		seen[categories[i].ID] = struct{}{}
		if err := validateCategory(categories[i]); err != nil {
			return nil, err
		}
	}
	err := s.mutateCategories(ctx, func([]domain.Category) ([]domain.Category, error) {
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Service) mutateCategories(ctx context.Context, fn func([]domain.Category) ([]domain.Category, error)) error {
	return s.store.Tx(ctx, func(tx *store.Tx) error {
		categories, err := fn(tx.Categories())
		if err != nil {
			return err
		}
		tx.SetCategories(categories)
		return nil
	})
}

func findCategory(categories []domain.Category, id string) int {
	return slices.IndexFunc(categories, func(c domain.Category) bool { return c.ID == id })
}

func validateCategory(c domain.Category) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Image) == "" {
		return fmt.Errorf("%w: category name and image required", domain.ErrInvalid)
	}
	return nil
}
