// Package pgslot keeps slots in PostgreSQL and uses LISTEN/NOTIFY to tell
// other processes that a slot changed.
package pgslot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/slot"
)

const (
	channel   = "slot_changes"
	opTimeout = 5 * time.Second
	// lockID serializes Update across all connections.
	lockID = 7_281_113
)

type Backend struct{ db *pgxpool.Pool }

type notice struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Connect opens a pool for dsn and prepares the slots table.
func Connect(ctx context.Context, dsn string) (*Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	b, err := New(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

func New(ctx context.Context, db *pgxpool.Pool) (*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS slots (
			slot_key   TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("migrate slots: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var v string
	err := b.db.QueryRow(ctx, `SELECT value FROM slots WHERE slot_key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, slot.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	return b.Update(ctx, []string{key}, func(map[string][]byte) (map[string][]byte, error) {
		return map[string][]byte{key: value}, nil
	})
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.Update(ctx, []string{key}, func(map[string][]byte) (map[string][]byte, error) {
		return map[string][]byte{key: nil}, nil
	})
}

func (b *Backend) Update(ctx context.Context, keys []string, fn slot.UpdateFunc) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := b.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockID); err != nil {
		return err
	}

	rows, err := tx.Query(ctx, `SELECT slot_key, value FROM slots WHERE slot_key = ANY($1)`, keys)
	if err != nil {
		return err
	}
	current := make(map[string][]byte, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return err
		}
		current[k] = []byte(v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	origin := slot.Origin(ctx)
	for _, k := range keys {
		v, ok := next[k]
		if !ok {
			continue
		}
		if v == nil {
			_, err = tx.Exec(ctx, `DELETE FROM slots WHERE slot_key = $1`, k)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO slots (slot_key, value, updated_at) VALUES ($1, $2, NOW())
				ON CONFLICT (slot_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
			`, k, string(v))
		}
		if err != nil {
			return err
		}
		payload, _ := json.Marshal(notice{Key: k, Origin: origin})
		// delivered to listeners on commit
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, channel, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Watch holds one pooled connection in LISTEN mode until ctx is done.
func (b *Backend) Watch(ctx context.Context, key string) (<-chan slot.Change, error) {
	conn, err := b.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, err
	}

	mine := slot.Origin(ctx)
	out := make(chan slot.Change, 16)
	go func() {
		defer close(out)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Msg("pgslot: wait for notification")
				}
				return
			}
			var msg notice
			if err := json.Unmarshal([]byte(n.Payload), &msg); err != nil {
				log.Warn().Err(err).Str("payload", n.Payload).Msg("pgslot: bad notification")
				continue
			}
			if msg.Key != key || (mine != "" && msg.Origin == mine) {
				continue
			}
			value, err := b.Get(ctx, key)
			if err != nil && !errors.Is(err, slot.ErrNotFound) {
				log.Error().Err(err).Str("key", key).Msg("pgslot: reload after notify")
				continue
			}
			select {
			case out <- slot.Change{Key: key, Value: value, Origin: msg.Origin}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Backend) Close() error {
	b.db.Close()
	return nil
}
