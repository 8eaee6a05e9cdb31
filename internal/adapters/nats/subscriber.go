package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// RecorderDurable is the durable consumer name used by the recorder.
const RecorderDurable = "identification-recorder"

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber connects to NATS and ensures the stream exists. durable names the JetStream consumer; empty uses RecorderDurable.
func NewSubscriber(url, durable string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStream(js); err != nil {
		conn.Close()
		return nil, err
	}
	if durable == "" {
		durable = RecorderDurable
	}
	return &Subscriber{conn: conn, js: js, durable: durable}, nil
}

// SubscribeIdentifications delivers every identification event to handler. Events that fail
// to decode are terminated; handler errors are redelivered up to three times.
func (s *Subscriber) SubscribeIdentifications(ctx context.Context, handler func(ctx context.Context, ident *domain.Identification) error) error {
	sub, err := s.js.Subscribe(SubjectIdentifiedAll, func(msg *nats.Msg) {
		ident, err := DecodeIdentification(msg.Data)
		if err != nil {
			slog.Warn("dropping malformed identification event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, ident); err != nil {
			slog.Warn("identification handler failed", "id", ident.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.BindStream(StreamIdentifications),
		nats.Durable(s.durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectIdentifiedAll, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// DecodeIdentification parses an event payload and rejects species outside the known set.
func DecodeIdentification(data []byte) (*domain.Identification, error) {
	var ident domain.Identification
	if err := json.Unmarshal(data, &ident); err != nil {
		return nil, fmt.Errorf("decode identification: %w", err)
	}
	if ident.ID == "" {
		return nil, fmt.Errorf("decode identification: missing id")
	}
	if !ident.Species.IsKnown() {
		return nil, fmt.Errorf("decode identification %s: %w: %q", ident.ID, domain.ErrUnknownSpecies, ident.Species)
	}
	return &ident, nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
