package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"groupware-approval/internal/domain/event"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher sends status-change events to <prefix>.<event type>.
// Errors are logged and returned; callers treat them as non-fatal.
type NATSPublisher struct {
	conn   Conn
	prefix string
	log    zerolog.Logger
}

// NewNATSPublisher accepts a nil conn, in which case Publish is a no-op.
func NewNATSPublisher(conn Conn, prefix string, log zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, log: log}
}

func (p *NATSPublisher) Subject(t event.Type) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "." + string(t)
}

func (p *NATSPublisher) Publish(ctx context.Context, e event.Event) error {
	if p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}

	subject := p.Subject(e.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Uint64("document_id", e.DocumentID).
			Msg("publish failed")
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.log.Debug().
		Str("subject", subject).
		Uint64("document_id", e.DocumentID).
		Int("recipients", len(e.Recipients)).
		Msg("event published")
	return nil
}
