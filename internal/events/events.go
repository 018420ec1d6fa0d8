// Package events publishes domain events about partnerships and revenue.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Routing keys.
const (
	PartnershipSaved       = "partnership.saved"
	PartnershipDeactivated = "partnership.deactivated"
	RevenuePosted          = "revenue.posted"
	PricingUpdated         = "pricing.updated"
	BillboardsImported     = "billboard.imported"
	SnapshotsWritten       = "snapshot.written"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

func encode(routingKey string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: routingKey, OccurredAt: time.Now().UTC(), Data: data})
}

// Emit publishes and logs any failure. Delivery is best-effort; callers never
// fail because an event could not be sent.
func Emit(ctx context.Context, p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		logrus.WithFields(logrus.Fields{
			"component":  "events",
			"routingKey": routingKey,
		}).WithError(err).Warn("failed to publish event")
	}
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	log *logrus.Entry
}

// NewLogPublisher returns a publisher that logs at info level.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logrus.WithField("component", "events")}
}

// Publish logs the encoded event.
func (p *LogPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := encode(routingKey, payload)
	if err != nil {
		return err
	}
	p.log.WithField("routingKey", routingKey).Info(string(body))
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
