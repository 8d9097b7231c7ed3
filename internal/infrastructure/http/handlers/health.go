package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports reachability of the backing stores: postgres
// always, the redis instance behind the event queue only when one is
// configured. Running without redis is a supported mode, not a failure.
type HealthHandler struct {
	db     *pgxpool.Pool
	events *redis.Client
}

func NewHealthHandler(db *pgxpool.Pool, eventsRedis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, events: eventsRedis}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		checks["postgres"] = "unreachable: " + err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if h.events != nil {
		if err := h.events.Ping(ctx).Err(); err != nil {
			checks["event_queue"] = "unreachable: " + err.Error()
			healthy = false
		} else {
			checks["event_queue"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "unhealthy",
			Checks:  checks,
			Message: "a backing store is unreachable",
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		Checks: checks,
	})
}
