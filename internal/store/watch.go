package store

import (
	"context"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/slot"
)

// WatchOrders streams the orders collection each time another context
// rewrites it. The channel closes when ctx is done.
func (s *Store) WatchOrders(ctx context.Context) (<-chan []domain.Order, error) {
	w, ok := s.backend.(slot.Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	changes, err := w.Watch(s.ctx(ctx), KeyOrders)
	if err != nil {
		return nil, err
	}

	out := make(chan []domain.Order)
	go func() {
		defer close(out)
		for c := range changes {
			orders := decode(KeyOrders, c.Value, emptyOf[domain.Order])
			select {
			case out <- orders:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
