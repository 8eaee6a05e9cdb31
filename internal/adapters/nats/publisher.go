// Package natsadapter publishes and consumes identification events over NATS JetStream.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

const (
	// StreamIdentifications retains identification events for the recorder.
	StreamIdentifications = "BUTTERFLY_IDENTIFICATIONS"
	// SubjectIdentifiedAll matches every identification subject.
	SubjectIdentifiedAll = "butterfly.identified.>"

	subjectIdentifiedPrefix = "butterfly.identified."
)

// IdentificationSubject returns the per-species subject, e.g. "butterfly.identified.blue-morpho".
func IdentificationSubject(species domain.SpeciesID) string {
	return subjectIdentifiedPrefix + species.Slug()
}

// StreamConfig is the JetStream stream the publisher ensures exists.
func StreamConfig() nats.StreamConfig {
	return nats.StreamConfig{
		Name:       StreamIdentifications,
		Subjects:   []string{SubjectIdentifiedAll},
		Retention:  nats.LimitsPolicy,
		MaxAge:     7 * 24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: 10 * time.Minute,
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the stream exists.
func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, js: js}, nil
}

// ensureStream creates the identification stream, or updates it if it already exists.
func ensureStream(js nats.JetStreamContext) error {
	cfg := StreamConfig()
	if _, err := js.AddStream(&cfg); err != nil {
		if _, err := js.UpdateStream(&cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// PublishIdentification publishes the event on the species subject. The identification ID
// is the JetStream message ID, so a retried publish is de-duplicated by the server.
func (p *Publisher) PublishIdentification(ctx context.Context, ident *domain.Identification) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal identification: %w", err)
	}
	_, err = p.js.Publish(IdentificationSubject(ident.Species), data,
		nats.Context(ctx),
		nats.MsgId(ident.ID),
	)
	if err != nil {
		return fmt.Errorf("publish identification %s: %w", ident.ID, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("butterflyguide"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
