package ports

import "context"

// DomainEvent is the envelope delivered to webhook subscribers.
type DomainEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// WebhookEmitter sends domain events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event DomainEvent) error
}
