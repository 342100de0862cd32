package pgslot

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/leathershop/internal/slot"
)

// connect requires a reachable PostgreSQL at POSTGRES_TEST_DSN.
func connect(t *testing.T) *Backend {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres integration test: POSTGRES_TEST_DSN not set")
	}
	b, err := Connect(context.Background(), dsn)
	if err != nil {
		t.Skipf("Skipping Postgres integration test: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestPostgres_UpdateAndGet(t *testing.T) {
	b := connect(t)
	ctx := context.Background()
	key := "test_" + uuid.NewString()
	t.Cleanup(func() { _ = b.Delete(ctx, key) })

	_, err := b.Get(ctx, key)
	require.ErrorIs(t, err, slot.ErrNotFound)

	require.NoError(t, b.Put(ctx, key, []byte(`[1]`)))

	boom := errors.New("boom")
	err = b.Update(ctx, []string{key}, func(cur map[string][]byte) (map[string][]byte, error) {
		return map[string][]byte{key: []byte(`[2]`)}, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := b.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestPostgres_WatchDeliversOtherOrigins(t *testing.T) {
	b := connect(t)
	key := "test_" + uuid.NewString()

	ctxA, cancel := context.WithTimeout(slot.WithOrigin(context.Background(), "a"), 5*time.Second)
	defer cancel()
	ch, err := b.Watch(ctxA, key)
	require.NoError(t, err)

	ctxB := slot.WithOrigin(context.Background(), "b")
	require.NoError(t, b.Put(ctxA, key, []byte(`"own"`)))
	require.NoError(t, b.Put(ctxB, key, []byte(`"other"`)))
	t.Cleanup(func() { _ = b.Delete(context.Background(), key) })

	select {
	case c := <-ch:
		assert.Equal(t, "b", c.Origin)
		assert.Equal(t, `"other"`, string(c.Value))
	case <-ctxA.Done():
		t.Fatal("no notification received")
	}
}
