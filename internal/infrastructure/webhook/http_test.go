package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/splits-network/splits-sub003/internal/application/ports"
)

func TestHTTPEmitterDeliversEvent(t *testing.T) {
	var got ports.DomainEvent
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	emitter := NewHTTPEmitter(srv.URL, WithHeader("Authorization", "Bearer secret"))
	event := ports.DomainEvent{Event: ports.EventCandidateSourced, Payload: map[string]any{"candidate_id": "c-1"}}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if got.Event != ports.EventCandidateSourced {
		t.Errorf("event = %q", got.Event)
	}
	if auth != "Bearer secret" {
		t.Errorf("auth header = %q", auth)
	}
}

func TestHTTPEmitterNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	emitter := NewHTTPEmitter(srv.URL)
	if err := emitter.Emit(context.Background(), ports.DomainEvent{Event: "x"}); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
