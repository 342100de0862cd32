// Package redisslot keeps slots as Redis strings and announces writes on a
// per-slot pub/sub channel.
package redisslot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/leathershop/internal/slot"
)

// maxRetries bounds optimistic transaction retries in Update.
const maxRetries = 16

type Backend struct {
	client *redis.Client
	prefix string
}

type message struct {
	Origin  string `json:"origin"`
	Value   []byte `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// New creates a backend for the Redis server at addr. Keys are stored under
// prefix, which may be empty.
func New(addr, password string, db int, prefix string) *Backend {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Backend{client: rdb, prefix: prefix}
}

// Ping checks the server is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Backend) key(k string) string     { return b.prefix + k }
func (b *Backend) channel(k string) string { return b.prefix + "slot:" + k }

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.client.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, slot.ErrNotFound
	}
	return v, err
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		return b.write(ctx, p, key, value)
	})
	return err
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		return b.write(ctx, p, key, nil)
	})
	return err
}

// Update retries while another client modifies one of the watched keys.
func (b *Backend) Update(ctx context.Context, keys []string, fn slot.UpdateFunc) error {
	watched := make([]string, len(keys))
	for i, k := range keys {
		watched[i] = b.key(k)
	}

	txf := func(tx *redis.Tx) error {
		current := make(map[string][]byte, len(keys))
		for _, k := range keys {
			v, err := tx.Get(ctx, b.key(k)).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return err
			}
			current[k] = v
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			for _, k := range keys {
				v, ok := next[k]
				if !ok {
					continue
				}
				if err := b.write(ctx, p, k, v); err != nil {
					return err
				}
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := b.client.Watch(ctx, txf, watched...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redisslot: update of %v: too much contention", keys)
}

func (b *Backend) write(ctx context.Context, p redis.Pipeliner, key string, value []byte) error {
	msg := message{Origin: slot.Origin(ctx), Value: value, Deleted: value == nil}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if value == nil {
		p.Del(ctx, b.key(key))
	} else {
		p.Set(ctx, b.key(key), value, 0)
	}
	p.Publish(ctx, b.channel(key), payload)
	return nil
}

func (b *Backend) Watch(ctx context.Context, key string) (<-chan slot.Change, error) {
	sub := b.client.Subscribe(ctx, b.channel(key))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	mine := slot.Origin(ctx)
	out := make(chan slot.Change, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var msg message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					log.Warn().Err(err).Str("channel", m.Channel).Msg("redisslot: bad message")
					continue
				}
				if mine != "" && msg.Origin == mine {
					continue
				}
				c := slot.Change{Key: key, Value: msg.Value, Origin: msg.Origin}
				if msg.Deleted {
					c.Value = nil
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *Backend) Close() error { return b.client.Close() }
