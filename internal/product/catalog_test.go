package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/slot"
	"github.com/MikeMC777/leathershop/internal/store"
)

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "Black Loafer", Category: "LOAFER", Price: decimal.NewFromInt(1500), OriginalPrice: price(1800), Images: []string{"a.jpg"}, Stock: 5, IsVisible: true},
		{ID: "b", Name: "Brown Loafer", Category: "LOAFER", Price: decimal.NewFromInt(900), Images: []string{"b.jpg"}, Stock: 20, IsVisible: true, IsFeatured: true},
		{ID: "c", Name: "Hidden Loafer", Category: "LOAFER", Price: decimal.NewFromInt(100), Images: []string{"c.jpg"}, Stock: 1},
		{ID: "d", Name: "Desert Boot", Category: "BOOT", Price: decimal.NewFromInt(3200), OriginalPrice: price(3000), Images: []string{"d.jpg"}, Stock: 8, IsVisible: true, IsFeatured: true},
		{ID: "e", Name: "Chelsea", Category: "BOOT", Price: decimal.NewFromInt(2800), Images: []string{"e.jpg"}, Stock: 12, IsVisible: true},
	}
}

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s := store.New(slot.NewMemory(), store.WithCatalog(catalog(), store.SeedCategories()))
	t.Cleanup(func() { _ = s.Close() })
	return NewService(s), s
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestListVisibleOnly(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "e"}, ids(got))
}

func TestListSearchMatchesNameOrCategory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	got, err := svc.List(ctx, Query{Q: "boot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "e"}, ids(got))

	got, err = svc.List(ctx, Query{Q: "  BROWN "})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestListMaxPriceHotDealsAndSort(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	got, err := svc.List(ctx, Query{MaxPrice: price(1500)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))

	// d carries an original price below its price, so it is not a deal.
	got, err = svc.List(ctx, Query{HotDeals: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))

	got, err = svc.List(ctx, Query{Sort: SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "e", "d"}, ids(got))

	got, err = svc.List(ctx, Query{Sort: SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "e", "a", "b"}, ids(got))
}

func TestFeatured(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, ids(got))
}

func TestGetWithRelated(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, related, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Black Loafer", p.Name)
	assert.Equal(t, []string{"b"}, ids(related))

	_, _, err = svc.Get(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = svc.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelatedCappedAtFive(t *testing.T) {
	var products []domain.Product
	for _, id := range []string{"x0", "x1", "x2", "x3", "x4", "x5", "x6"} {
		products = append(products, domain.Product{ID: id, Name: id, Category: "SANDAL", Images: []string{id}, IsVisible: true})
	}
	s := store.New(slot.NewMemory(), store.WithCatalog(products, nil))
	defer s.Close()

	_, related, err := NewService(s).Get(context.Background(), "x3")
	require.NoError(t, err)
	assert.Equal(t, []string{"x0", "x1", "x2", "x4", "x5"}, ids(related))
}

func TestAdminProductCRUD(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductRequest{
		Name:   "Tarsal",
		Price:  decimal.NewFromInt(1200),
		Images: []string{"t.jpg"},
		Stock:  3,
	}.Product(""))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsVisible)

	all, err := svc.All(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, created.ID, all[0].ID)

	created.Stock = 9
	updated, err := svc.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)

	toggled, err := svc.ToggleVisibility(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsVisible)
	visible, _ := svc.List(ctx, Query{})
	assert.NotContains(t, ids(visible), created.ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrNotFound)
	products, _ := s.Products(ctx)
	assert.Len(t, products, 5)
}

func TestAdminProductValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Product{Name: "", Images: []string{"x"}})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.Create(ctx, domain.Product{Name: "No image"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.Create(ctx, domain.Product{Name: "Neg", Images: []string{"x"}, Stock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.Update(ctx, "missing", domain.Product{Name: "x", Images: []string{"x"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceCatalog(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	got, err := svc.Replace(ctx, []domain.Product{{Name: "Only", Images: []string{"o.jpg"}, IsVisible: true}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)

	_, err = svc.Replace(ctx, []domain.Product{
		{ID: "dup", Name: "A", Images: []string{"a"}},
		{ID: "dup", Name: "B", Images: []string{"b"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	all, _ := svc.All(ctx, "")
	assert.Len(t, all, 1)
}

func TestCategoryCRUD(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, domain.Category{Name: "MOCCASIN", Image: "m.jpg"})
	require.NoError(t, err)
	categories, _ := svc.Categories(ctx)
	require.Len(t, categories, 11)
	assert.Equal(t, c.ID, categories[10].ID)

	_, err = svc.UpdateCategory(ctx, c.ID, domain.Category{Name: "MOCCASINS", Image: "m.jpg"})
	require.NoError(t, err)
	categories, _ = svc.Categories(ctx)
	assert.Equal(t, "MOCCASINS", categories[10].Name)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), domain.ErrNotFound)

	_, err = svc.CreateCategory(ctx, domain.Category{Name: "NO IMAGE"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	replaced, err := svc.ReplaceCategories(ctx, []domain.Category{{Name: "ONE", Image: "1.jpg"}})
	require.NoError(t, err)
	assert.NotEmpty(t, replaced[0].ID)
	categories, _ = svc.Categories(ctx)
	assert.Len(t, categories, 1)
}

func TestReplaceCategoriesRejectsDuplicateIDs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ReplaceCategories(ctx, []domain.Category{
		{ID: "dup", Name: "ONE", Image: "1.jpg"},
		{ID: "dup", Name: "TWO", Image: "2.jpg"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	categories, _ := svc.Categories(ctx)
	assert.Len(t, categories, 10)
}
