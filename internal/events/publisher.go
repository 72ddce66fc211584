// Package events publishes drift notifications to NATS so downstream
// tooling (alerting, chatops) can react without polling the daemon.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/tfdriver/internal/config"
	"git.home.luguber.info/inful/tfdriver/internal/logfields"
)

// DriftEvent is the payload published when a drift check completes with a
// noteworthy outcome.
type DriftEvent struct {
	Outcome    string    `json:"outcome"` // clean | detected | error
	ExitCode   int       `json:"exit_code"`
	Workdir    string    `json:"workdir"`
	CommitHash string    `json:"commit_hash,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
	Summary    string    `json:"summary,omitempty"`
}

// Publisher sends drift events on a fixed subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// Connect dials NATS and returns a Publisher for the configured subject.
func Connect(cfg config.EventsConfig, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name("tfdriver"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", cfg.URL, err)
	}
	logger.Info("Connected to NATS", logfields.URL(cfg.URL), logfields.Subject(cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject, logger: logger}, nil
}

// PublishDrift sends one event. Publish failures are returned, not
// retried; drift checks recur on their own schedule.
func (p *Publisher) PublishDrift(event DriftEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal drift event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish drift event: %w", err)
	}
	p.logger.Debug("Published drift event",
		logfields.Subject(p.subject),
		slog.String("outcome", event.Outcome))
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
