package live

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestPGNotifierFallsBackToHub(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	hub := NewHub()
	signal, stop := hub.Listen(TopicContributions)
	defer stop()

	n := NewPGNotifier(db, "", hub)
	n.Publish(context.Background(), TopicContributions)

	select {
	case <-signal:
	case <-time.After(wait):
		t.Fatal("local listeners were not told about the change")
	}
}

func TestPGNotifierRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := NewPGNotifier(nil, "postgres://invalid:1/none?connect_timeout=1", NewHub())

	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
