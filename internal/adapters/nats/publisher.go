package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/ports"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "ANALYSIS_JOBS",
			Subjects:  []string{"agro.analysis.jobs.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "AGRO_EVENTS",
			Subjects:  []string{"agro.events.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishAnalysisJob(ctx context.Context, job *ports.AnalysisJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("agro.analysis.jobs."+job.SessionID, data)
	return err
}

func (p *Publisher) PublishAnalysisCompleted(ctx context.Context, session *domain.AnalysisSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("agro.events.analysis."+session.SessionID, data)
	return err
}

func (p *Publisher) PublishLayoutGenerated(ctx context.Context, layout *domain.PlantingLayout) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("agro.events.layouts."+layout.LayoutID, data)
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, subject string, data []byte) error {
	return p.conn.Publish(subject, data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
