package testutil

import (
	"context"
	"sync"
)

// PublishedEvent is an event captured by RecordingPublisher.
type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

// RecordingPublisher captures published events in memory.
// Set Err to make every Publish fail.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

// NewRecordingPublisher returns an empty RecordingPublisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event.
func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Close is a no-op.
func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.events...)
}

// Keys returns the routing keys of the recorded events in order.
func (p *RecordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
