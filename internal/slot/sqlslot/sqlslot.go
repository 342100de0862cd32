// Package sqlslot stores slots in a single database/sql table. It is used with
// the pure-Go SQLite driver but works with any driver that accepts the
// configured placeholder style.
package sqlslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MikeMC777/leathershop/internal/slot"
)

type Placeholder int

const (
	Question Placeholder = iota // ?
	Dollar                      // $1
)

type Option func(*Backend)

// WithPlaceholder selects the bind-parameter style of the driver.
func WithPlaceholder(p Placeholder) Option {
	return func(b *Backend) { b.ph = p }
}

// WithTable overrides the table name (default "slots").
func WithTable(name string) Option {
	return func(b *Backend) { b.table = name }
}

type Backend struct {
	db    *sql.DB
	ph    Placeholder
	table string
}

// Open opens a SQLite database at path (":memory:" for a private in-memory
// database) and prepares the slots table.
func Open(ctx context.Context, path string) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	b, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func New(ctx context.Context, db *sql.DB, opts ...Option) (*Backend, error) {
	b := &Backend{db: db, ph: Question, table: "slots"}
	for _, o := range opts {
		o(b)
	}
	if err := b.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate slots: %w", err)
	}
	return b, nil
}

func (b *Backend) migrate(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+b.table+` (
			slot_key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	return err
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := b.db.QueryRowContext(ctx, b.q(`SELECT value FROM `+b.table+` WHERE slot_key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, slot.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, b.upsertSQL(), key, string(value), now())
	return err
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx, b.q(`DELETE FROM `+b.table+` WHERE slot_key = ?`), key)
	return err
}

func (b *Backend) Update(ctx context.Context, keys []string, fn slot.UpdateFunc) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	current := make(map[string][]byte, len(keys))
	for _, k := range keys {
		var v string
		err := tx.QueryRowContext(ctx, b.q(`SELECT value FROM `+b.table+` WHERE slot_key = ?`), k).Scan(&v)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		default:
			current[k] = []byte(v)
		}
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	ts := now()
	for _, k := range keys {
		v, ok := next[k]
		if !ok {
			continue
		}
		if v == nil {
			if _, err := tx.ExecContext(ctx, b.q(`DELETE FROM `+b.table+` WHERE slot_key = ?`), k); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, b.upsertSQL(), k, string(v), ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (b *Backend) Close() error { return b.db.Close() }

func (b *Backend) upsertSQL() string {
	return b.q(`INSERT INTO ` + b.table + ` (slot_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
}

// q rewrites ? placeholders for drivers using $n.
func (b *Backend) q(query string) string {
	if b.ph != Dollar {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }
