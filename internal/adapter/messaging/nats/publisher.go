package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/qinghao1/gojek/internal/core/domain"
)

const DefaultSubject = "drivers.location"

type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher emits one message per committed location update on
// "<subject>.<driver id>".
type Publisher struct {
	conn    Conn
	subject string
}

func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("driver-locations"), nats.MaxReconnects(-1))
}

func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

func (p *Publisher) PublishLocation(_ context.Context, evt domain.LocationUpdated) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal location update: %w", err)
	}
	if err := p.conn.Publish(fmt.Sprintf("%s.%d", p.subject, evt.DriverID), data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}
