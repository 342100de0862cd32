package slot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	_, err := m.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Put(ctx, "a", []byte(`[1]`)))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	// the returned slice is a copy
	got[0] = 'x'
	again, _ := m.Get(ctx, "a")
	assert.Equal(t, `[1]`, string(again))

	require.NoError(t, m.Delete(ctx, "a"))
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	require.NoError(t, m.Put(ctx, "orders", []byte(`[]`)))
	require.NoError(t, m.Put(ctx, "products", []byte(`[5]`)))

	boom := errors.New("boom")
	err := m.Update(ctx, []string{"orders", "products"}, func(cur map[string][]byte) (map[string][]byte, error) {
		return map[string][]byte{"orders": []byte(`[1]`)}, boom
	})
	require.ErrorIs(t, err, boom)

	o, _ := m.Get(ctx, "orders")
	p, _ := m.Get(ctx, "products")
	assert.Equal(t, `[]`, string(o))
	assert.Equal(t, `[5]`, string(p))

	err = m.Update(ctx, []string{"orders", "products", "missing"}, func(cur map[string][]byte) (map[string][]byte, error) {
		assert.Len(t, cur, 2)
		return map[string][]byte{
			"orders":   []byte(`[1]`),
			"products": nil,
		}, nil
	})
	require.NoError(t, err)
	o, _ = m.Get(ctx, "orders")
	assert.Equal(t, `[1]`, string(o))
	_, err = m.Get(ctx, "products")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_WatchSkipsOwnOrigin(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	ctxA, cancel := context.WithCancel(WithOrigin(context.Background(), "tab-a"))
	defer cancel()
	ctxB := WithOrigin(context.Background(), "tab-b")

	ch, err := m.Watch(ctxA, "orders")
	require.NoError(t, err)

	require.NoError(t, m.Put(ctxA, "orders", []byte(`"mine"`)))
	require.NoError(t, m.Put(ctxB, "orders", []byte(`"theirs"`)))

	select {
	case c := <-ch:
		assert.Equal(t, "orders", c.Key)
		assert.Equal(t, "tab-b", c.Origin)
		assert.Equal(t, `"theirs"`, string(c.Value))
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}
	select {
	case c := <-ch:
		t.Fatalf("unexpected change %+v", c)
	default:
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_Closed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Put(ctx, "a", nil), ErrClosed)
}
