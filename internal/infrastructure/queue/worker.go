package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/ports"
)

// Worker drains the event queue and delivers each event to the webhook
// emitter. A failed delivery returns the error so Asynq retries with
// backoff.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, emitter: emitter, log: log}
	mux.HandleFunc(TypeDomainEvent, w.handleDomainEvent)
	return w
}

func (w *Worker) handleDomainEvent(ctx context.Context, t *asynq.Task) error {
	var event ports.DomainEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		w.log.Error().Err(err).Msg("domain event payload invalid")
		return err
	}
	if err := w.emitter.Emit(ctx, event); err != nil {
		w.log.Warn().Err(err).Str("event", event.Event).Msg("webhook delivery failed")
		return err
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
