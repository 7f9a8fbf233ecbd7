package live

import (
	"context"
	"log/slog"
	"sync"
)

// Subscription delivers snapshots of type T. Only the newest undelivered
// snapshot is buffered, so a slow reader skips intermediate states but never
// sees an older snapshot after a newer one. C is closed once the
// subscription stops.
type Subscription[T any] struct {
	ch     chan T
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newSubscription[T any](ctx context.Context) (*Subscription[T], context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	return &Subscription[T]{
		ch:     make(chan T, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}, ctx
}

func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close stops delivery and waits for the feed goroutine to exit.
func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed after the subscription has stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// emit must only be called from the feed goroutine.
func (s *Subscription[T]) emit(v T) {
	select {
	case s.ch <- v:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}

func (s *Subscription[T]) finish() {
	close(s.ch)
	close(s.done)
}

// Watch runs query once immediately and again whenever hub signals one of
// topics, emitting each result. A failed query is logged and the previous
// snapshot stays current.
func Watch[T any](ctx context.Context, hub *Hub, query func(context.Context) (T, error), topics ...Topic) *Subscription[T] {
	sub, ctx := newSubscription[T](ctx)
	signal, unlisten := hub.Listen(topics...)

	go func() {
		defer sub.finish()
		defer unlisten()

		refresh := func() {
			v, err := query(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("subscription query failed", "topics", topics, "error", err)
				}
				return
			}
			sub.emit(v)
		}

		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				refresh()
			}
		}
	}()

	return sub
}

// Join combines two subscriptions. It emits merge(a, b) once both have
// delivered a snapshot and again whenever either delivers a new one. Closing
// the joined subscription closes both inputs; if either input stops, so does
// the join.
func Join[A, B, T any](ctx context.Context, a *Subscription[A], b *Subscription[B], merge func(A, B) T) *Subscription[T] {
	sub, ctx := newSubscription[T](ctx)

	go func() {
		defer sub.finish()
		defer b.Close()
		defer a.Close()

		var (
			lastA        A
			lastB        B
			haveA, haveB bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-a.C():
				if !ok {
					return
				}
				lastA, haveA = v, true
			case v, ok := <-b.C():
				if !ok {
					return
				}
				lastB, haveB = v, true
			}
			if haveA && haveB {
				sub.emit(merge(lastA, lastB))
			}
		}
	}()

	return sub
}
