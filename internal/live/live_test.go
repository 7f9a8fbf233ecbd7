package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = time.Second

func receive[T any](t *testing.T, sub *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(wait):
		t.Fatal("no snapshot delivered")
	}
	var zero T
	return zero
}

func TestHubPublishCoalesces(t *testing.T) {
	hub := NewHub()
	signal, unlisten := hub.Listen(TopicGoals)
	defer unlisten()

	for range 5 {
		hub.Publish(context.Background(), TopicGoals)
	}
	hub.Publish(context.Background(), TopicSettings)

	assert.Len(t, signal, 1)
	<-signal
	assert.Empty(t, signal)

	unlisten()
	unlisten()
	assert.Zero(t, hub.Listeners())
}

func TestWatchEmitsInitialAndOnChange(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	query := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	sub := Watch(context.Background(), hub, query, TopicContributions)
	defer sub.Close()

	assert.Equal(t, 1, receive(t, sub))

	hub.Publish(context.Background(), TopicContributions)
	assert.Equal(t, 2, receive(t, sub))

	hub.Publish(context.Background(), TopicGoals)
	select {
	case v := <-sub.C():
		t.Fatalf("unexpected snapshot %d for unrelated topic", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchKeepsLastSnapshotOnError(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	query := func(context.Context) (string, error) {
		if calls.Add(1) == 2 {
			return "", errors.New("offline")
		}
		return "ok", nil
	}

	sub := Watch(context.Background(), hub, query, TopicGoals)
	defer sub.Close()
	assert.Equal(t, "ok", receive(t, sub))

	hub.Publish(context.Background(), TopicGoals)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, wait, time.Millisecond)
	assert.Empty(t, sub.C())

	hub.Publish(context.Background(), TopicGoals)
	assert.Equal(t, "ok", receive(t, sub))
}

func TestSlowReaderSeesLatest(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	query := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	sub := Watch(context.Background(), hub, query, TopicGoals)
	defer sub.Close()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, wait, time.Millisecond)
	for range 3 {
		hub.Publish(context.Background(), TopicGoals)
		n := calls.Load()
		require.Eventually(t, func() bool { return calls.Load() > n }, wait, time.Millisecond)
	}

	// Intermediate snapshots were dropped, the order never regresses.
	var seen []int
	for len(seen) == 0 || seen[len(seen)-1] != 4 {
		seen = append(seen, receive(t, sub))
	}
	assert.IsIncreasing(t, seen)
	assert.LessOrEqual(t, len(seen), 2)
}

func TestCloseStopsDeliveryAndUnregisters(t *testing.T) {
	hub := NewHub()
	sub := Watch(context.Background(), hub, func(context.Context) (int, error) { return 1, nil }, TopicGoals)
	receive(t, sub)

	sub.Close()
	sub.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.Zero(t, hub.Listeners())
}

func TestContextCancelStopsSubscription(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	sub := Watch(ctx, hub, func(context.Context) (int, error) { return 1, nil }, TopicGoals)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(wait):
		t.Fatal("subscription did not stop")
	}
	assert.Zero(t, hub.Listeners())
}

func TestJoinWaitsForBothFeeds(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	var owned atomic.Int32
	a := Watch(ctx, hub, func(context.Context) (int, error) { return int(owned.Load()), nil }, TopicGoals)
	b := Watch(ctx, hub, func(context.Context) (string, error) { return "shared", nil }, TopicGoals)

	joined := Join(ctx, a, b, func(n int, s string) string {
		return s + ":" + string(rune('0'+n))
	})

	require.Eventually(t, func() bool {
		select {
		case v := <-joined.C():
			return v == "shared:0"
		default:
			return false
		}
	}, wait, time.Millisecond)

	owned.Store(3)
	hub.Publish(ctx, TopicGoals)
	require.Eventually(t, func() bool {
		select {
		case v := <-joined.C():
			return v == "shared:3"
		default:
			return false
		}
	}, wait, time.Millisecond)

	joined.Close()
	<-a.Done()
	<-b.Done()
	assert.Zero(t, hub.Listeners())
}
