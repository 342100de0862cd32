package slot

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// watchBuffer bounds how many undelivered changes a slow watcher may hold.
const watchBuffer = 64

// Memory is an in-process Backend. Several stores sharing one Memory behave
// like browser tabs sharing local storage.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[string]map[*watcher]struct{}
	closed   bool
}

type watcher struct {
	origin string
	ch     chan Change
}

func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string][]byte),
		watchers: make(map[string]map[*watcher]struct{}),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(v), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.set(key, value)
	m.notify(key, value, Origin(ctx))
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, ok := m.data[key]; !ok {
		return nil
	}
	delete(m.data, key)
	m.notify(key, nil, Origin(ctx))
	return nil
}

func (m *Memory) Update(ctx context.Context, keys []string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	current := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			current[k] = clone(v)
		}
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	origin := Origin(ctx)
	for _, k := range keys {
		v, ok := next[k]
		if !ok {
			continue
		}
		if v == nil {
			delete(m.data, k)
		} else {
			m.set(k, v)
		}
		m.notify(k, v, origin)
	}
	return nil
}

func (m *Memory) Watch(ctx context.Context, key string) (<-chan Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	w := &watcher{origin: Origin(ctx), ch: make(chan Change, watchBuffer)}
	if m.watchers[key] == nil {
		m.watchers[key] = make(map[*watcher]struct{})
	}
	m.watchers[key][w] = struct{}{}

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.watchers[key][w]; ok {
			delete(m.watchers[key], w)
			close(w.ch)
		}
	}()
	return w.ch, nil
}

// Close drops all data and closes every watcher.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, ws := range m.watchers {
		for w := range ws {
			close(w.ch)
		}
	}
	m.watchers = nil
	m.data = nil
	return nil
}

func (m *Memory) set(key string, value []byte) {
	m.data[key] = clone(value)
}

// notify must be called with m.mu held.
func (m *Memory) notify(key string, value []byte, origin string) {
	for w := range m.watchers[key] {
		if w.origin != "" && w.origin == origin {
			continue
		}
		select {
		case w.ch <- Change{Key: key, Value: clone(value), Origin: origin}:
		default:
			log.Warn().Str("key", key).Msg("slot watcher full, change dropped")
		}
	}
}
