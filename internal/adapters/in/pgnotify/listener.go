// Package pgnotify turns postgres order_ready notifications into robot
// assignments, so a ready order is picked up without waiting for the sweep.
package pgnotify

import (
	"context"
	"log/slog"
	"time"

	"robodelivery/internal/adapters/out/postgres/orderrepo"
	"robodelivery/internal/core/application/usecases/commands"
	"robodelivery/internal/core/domain/model/kernel"

	"github.com/lib/pq"
)

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

type Assigner interface {
	Assign(ctx context.Context, orderID kernel.UUID) (commands.AssignRobotResult, error)
}

// notifications is the part of *pq.Listener the loop reads from.
type notifications interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
}

type Listener struct {
	dsn      string
	assigner Assigner
	logger   *slog.Logger
}

func NewListener(dsn string, assigner Assigner, logger *slog.Logger) *Listener {
	return &Listener{dsn: dsn, assigner: assigner, logger: logger}
}

// Run listens until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	pl := pq.NewListener(l.dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.Warn("order listener connection event", "event", ev, "error", err)
		}
	})
	defer pl.Close()

	if err := pl.Listen(orderrepo.ReadyChannel); err != nil {
		return err
	}
	l.logger.Info("listening for ready orders", "channel", orderrepo.ReadyChannel)

	l.loop(ctx, pl)
	return nil
}

func (l *Listener) loop(ctx context.Context, src notifications) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-src.NotificationChannel():
			// nil after a reconnect; notifications sent meanwhile are left to the sweep.
			if n == nil {
				continue
			}
			l.handle(ctx, n.Extra)
		case <-time.After(pingInterval):
			go func() {
				if err := src.Ping(); err != nil {
					l.logger.Warn("order listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *Listener) handle(ctx context.Context, payload string) {
	orderID, err := kernel.UUIDFromString(payload)
	if err == nil {
		err = orderID.Validate()
	}
	if err != nil {
		l.logger.Warn("ignoring malformed order notification", "payload", payload)
		return
	}

	result, err := l.assigner.Assign(ctx, orderID)
	if err != nil {
		l.logger.Error("failed to assign notified order", "order_id", payload, "error", err)
		return
	}
	l.logger.Debug("notified order handled", "order_id", payload, "outcome", result.Outcome.String())
}
