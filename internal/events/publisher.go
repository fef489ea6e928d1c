// Package events publishes mirror run notifications for downstream
// consumers (site rebuild triggers, dashboards).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/coursemirror/internal/logfields"
)

// RunCompleted is emitted after every full mirror run in watch mode.
type RunCompleted struct {
	RunID     string    `json:"run_id"`
	Revision  string    `json:"revision,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Modules   []string  `json:"modules"`
	Files     int       `json:"files"`
	Bytes     int64     `json:"bytes"`
	TreeHash  string    `json:"tree_hash,omitempty"`
	Status    string    `json:"status"`
}

// Publisher delivers run notifications.
type Publisher interface {
	Publish(ctx context.Context, event RunCompleted) error
	Close()
}

// NoopPublisher is used when event publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, RunCompleted) error { return nil }
func (NoopPublisher) Close()                                      {}

// NATSPublisher publishes run events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to NATS and returns a publisher for the subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized",
		slog.String("url", url),
		slog.String("subject", subject))

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends the event as JSON and flushes within the context deadline.
func (p *NATSPublisher) Publish(ctx context.Context, event RunCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush run event: %w", err)
	}

	slog.Debug("Published run event",
		logfields.RunID(event.RunID),
		slog.String("subject", p.subject))
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
