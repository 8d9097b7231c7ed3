package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/access"
	"github.com/splits-network/splits-sub003/internal/domain"
)

type contextKey string

const (
	actorContextKey contextKey = "actor"
	capsContextKey  contextKey = "capabilities"
)

// WithActor injects the caller identity into the context.
func WithActor(ctx context.Context, actorID domain.ActorID, caps domain.CapabilitySet) context.Context {
	ctx = context.WithValue(ctx, actorContextKey, actorID)
	return context.WithValue(ctx, capsContextKey, caps)
}

// ActorFromContext returns the actor id from the context, or "".
func ActorFromContext(ctx context.Context) domain.ActorID {
	v := ctx.Value(actorContextKey)
	if v == nil {
		return ""
	}
	a, _ := v.(domain.ActorID)
	return a
}

// CapabilitiesFromContext returns the resolved capability set from the
// context. Missing means the resolver middleware did not run; callers get
// an empty set and fail closed.
func CapabilitiesFromContext(ctx context.Context) domain.CapabilitySet {
	v := ctx.Value(capsContextKey)
	if v == nil {
		return domain.CapabilitySet{}
	}
	caps, _ := v.(domain.CapabilitySet)
	return caps
}

// ActorResolver resolves the X-Actor-ID header into a capability set before
// the handlers run. The gateway authenticated the caller; this layer only
// classifies them. X-Org-ID is an optional hint that scopes the membership
// lookup.
type ActorResolver struct {
	resolver *access.Resolver
	log      zerolog.Logger
}

func NewActorResolver(resolver *access.Resolver, log zerolog.Logger) *ActorResolver {
	return &ActorResolver{resolver: resolver, log: log}
}

func (a *ActorResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := domain.ActorID(r.Header.Get("X-Actor-ID"))
		if actorID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing X-Actor-ID header", "code": "unauthorized"})
			return
		}

		input := access.ResolveInput{ActorID: actorID}
		if org := r.Header.Get("X-Org-ID"); org != "" {
			id, err := uuid.Parse(org)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid X-Org-ID header", "code": "invalid_request"})
				return
			}
			companyID := domain.NewCompanyID(id)
			input.CompanyID = &companyID
		}

		caps, err := a.resolver.Resolve(r.Context(), input)
		if err != nil {
			a.log.Error().Err(err).Str("actor_id", actorID.String()).Msg("capability resolution failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "capability resolution failed", "code": "internal_error"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actorID, caps)))
	})
}
