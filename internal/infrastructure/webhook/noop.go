package webhook

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
)

// NoopEmitter discards domain events when EVENTS_WEBHOOK_URL is not set.
type NoopEmitter struct{}

// NewNoopEmitter returns a WebhookEmitter that discards all events.
func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

// Emit implements ports.WebhookEmitter.
func (e *NoopEmitter) Emit(ctx context.Context, event ports.DomainEvent) error {
	return nil
}

var _ ports.WebhookEmitter = (*NoopEmitter)(nil)
