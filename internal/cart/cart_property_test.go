package cart

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MikeMC777/leathershop/internal/slot"
	"github.com/MikeMC777/leathershop/internal/store"
)

// Adding the same line twice yields one line whose quantity is the sum.
func TestAddSumsQuantitiesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same id merges with summed quantity", prop.ForAll(
		func(a, b int) bool {
			ctx := context.Background()
			m := New(store.New(slot.NewMemory()), nil)
			if _, err := m.Add(ctx, line("p1", "40", a, 1990)); err != nil {
				return false
			}
			items, err := m.Add(ctx, line("p1", "40", b, 1990))
			if err != nil {
				return false
			}
			return len(items) == 1 && items[0].Quantity == a+b
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 1000),
	))

	properties.TestingRun(t)
}

// UpdateQuantity never leaves a quantity below 1.
func TestUpdateQuantityClampProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("quantity is max(1, q)", prop.ForAll(
		func(q int) bool {
			ctx := context.Background()
			m := New(store.New(slot.NewMemory()), nil)
			if _, err := m.Add(ctx, line("p1", "40", 1, 1990)); err != nil {
				return false
			}
			items, err := m.UpdateQuantity(ctx, "p1-40", q)
			if err != nil {
				return false
			}
			want := q
			if want < 1 {
				want = 1
			}
			return items[0].Quantity == want
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}
