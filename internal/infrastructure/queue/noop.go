package queue

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
)

// NoopPublisher discards domain events when Redis/Asynq is not configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (q *NoopPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	return nil
}

var _ ports.EventPublisher = (*NoopPublisher)(nil)
