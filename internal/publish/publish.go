// Package publish mirrors room lifecycle events onto NATS for other
// services. Delivery is fire and forget.
package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"skyrelay/internal/events"
)

const subjectPrefix = "skyrelay."

// Subject is where events of the given kind are published.
func Subject(kind events.Kind) string {
	return subjectPrefix + string(kind)
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	logger = logger.With("component", "publish")
	conn, err := nats.Connect(
		url,
		nats.Name("skyrelay"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	logger.Info("connected to NATS", "url", conn.ConnectedUrl())
	return &Publisher{conn: conn, logger: logger}, nil
}

func (p *Publisher) Publish(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Kind, err)
	}
	if err := p.conn.Publish(Subject(ev.Kind), data); err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Kind, err)
	}
	return nil
}

// Close flushes pending messages before closing.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
