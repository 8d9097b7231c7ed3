package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/ports"
)

const TypeDomainEvent = "event:publish"

// EventEnqueuer publishes domain events by enqueuing an Asynq task. The
// worker delivers them to the configured webhook endpoint, so a slow or
// down subscriber never stalls the request path.
type EventEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewEventEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *EventEnqueuer {
	return &EventEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *EventEnqueuer) Close() error {
	return q.client.Close()
}

func (q *EventEnqueuer) Publish(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(ports.DomainEvent{Event: eventType, Payload: payload})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeDomainEvent, body)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("event", eventType).Msg("enqueue domain event failed")
		return err
	}
	return nil
}

var _ ports.EventPublisher = (*EventEnqueuer)(nil)
