package sqlslot

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/leathershop/internal/slot"
)

func openMemory(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLite_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	b := openMemory(t)

	_, err := b.Get(ctx, "shop_cart")
	require.ErrorIs(t, err, slot.ErrNotFound)

	require.NoError(t, b.Put(ctx, "shop_cart", []byte(`[]`)))
	require.NoError(t, b.Put(ctx, "shop_cart", []byte(`[{"id":"p1-40"}]`)))

	got, err := b.Get(ctx, "shop_cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1-40"}]`, string(got))

	require.NoError(t, b.Delete(ctx, "shop_cart"))
	_, err = b.Get(ctx, "shop_cart")
	assert.ErrorIs(t, err, slot.ErrNotFound)
}

func TestSQLite_UpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	b := openMemory(t)

	require.NoError(t, b.Put(ctx, "shop_orders", []byte(`[]`)))
	require.NoError(t, b.Put(ctx, "shop_products", []byte(`[{"stock":5}]`)))

	boom := errors.New("boom")
	err := b.Update(ctx, []string{"shop_orders", "shop_products"}, func(cur map[string][]byte) (map[string][]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	err = b.Update(ctx, []string{"shop_orders", "shop_products"}, func(cur map[string][]byte) (map[string][]byte, error) {
		assert.Equal(t, `[]`, string(cur["shop_orders"]))
		return map[string][]byte{
			"shop_orders":   []byte(`[{"id":"ORD-1"}]`),
			"shop_products": []byte(`[{"stock":4}]`),
		}, nil
	})
	require.NoError(t, err)

	o, err := b.Get(ctx, "shop_orders")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"ORD-1"}]`, string(o))
	p, err := b.Get(ctx, "shop_products")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"stock":4}]`, string(p))
}

func TestSQLMock_UpdateAbortsWithoutWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	b, err := New(context.Background(), db, WithPlaceholder(Dollar))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM slots WHERE slot_key = $1")).
		WithArgs("shop_orders").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))
	mock.ExpectRollback()

	boom := errors.New("stock check failed")
	err = b.Update(context.Background(), []string{"shop_orders"}, func(map[string][]byte) (map[string][]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_GetPropagatesDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	b, err := New(context.Background(), db)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM slots WHERE slot_key = ?")).
		WithArgs("shop_settings").
		WillReturnError(sqlmock.ErrCancelled)

	_, err = b.Get(context.Background(), "shop_settings")
	assert.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NotErrorIs(t, err, slot.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholderRewrite(t *testing.T) {
	b := &Backend{ph: Dollar, table: "slots"}
	assert.Equal(t, "DELETE FROM slots WHERE slot_key = $1", b.q("DELETE FROM slots WHERE slot_key = ?"))
	assert.Contains(t, b.upsertSQL(), "VALUES ($1, $2, $3)")
}
