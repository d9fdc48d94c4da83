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

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber sharing a NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeAnalysisJobs(ctx context.Context, handler func(ctx context.Context, job *ports.AnalysisJob) error) error {
	sub, err := s.js.Subscribe("agro.analysis.jobs.>", func(msg *nats.Msg) {
		var job ports.AnalysisJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &job); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("analysis-worker"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeAnalysisCompleted(ctx context.Context, handler func(ctx context.Context, session *domain.AnalysisSession) error) error {
	sub, err := s.js.Subscribe("agro.events.analysis.>", func(msg *nats.Msg) {
		var session domain.AnalysisSession
		if err := json.Unmarshal(msg.Data, &session); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &session); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("analysis-events"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
