package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
)

// Channel is the postgres NOTIFY channel carrying topic names.
const Channel = "ahorros_changes"

const reconnectDelay = 2 * time.Second

// PGNotifier publishes topics with pg_notify so every server sharing the
// database sees the change, and forwards notifications it receives to a Hub.
type PGNotifier struct {
	db  *sqlx.DB
	dsn string
	hub *Hub
}

func NewPGNotifier(db *sqlx.DB, dsn string, hub *Hub) *PGNotifier {
	return &PGNotifier{db: db, dsn: dsn, hub: hub}
}

func (n *PGNotifier) Publish(ctx context.Context, topics ...Topic) {
	for _, topic := range topics {
		_, err := n.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, Channel, string(topic))
		if err != nil {
			// Local listeners still need the change.
			slog.Error("failed to notify", "topic", topic, "error", err)
			n.hub.Publish(ctx, topic)
		}
	}
}

// Run listens until ctx is cancelled, reconnecting after failures. Every
// (re)connect republishes all topics so listeners resync changes they may
// have missed.
func (n *PGNotifier) Run(ctx context.Context) error {
	for {
		err := n.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("change listener disconnected", "error", err, "retry_in", reconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (n *PGNotifier) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, n.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect listener: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+Channel)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	slog.Info("listening for changes", "channel", Channel)

	n.hub.Publish(ctx, AllTopics...)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed to wait for notification: %w", err)
		}
		n.hub.Publish(ctx, Topic(notification.Payload))
	}
}
