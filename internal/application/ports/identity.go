package ports

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/domain"
)

// IdentityDirectory queries the external identity store. The core never
// writes to it. All lookups answer "no such identity" with a nil result and
// nil error; only store failures return an error.
type IdentityDirectory interface {
	// FindRecruiterByActor maps an actor token to a recruiter record, or nil.
	FindRecruiterByActor(ctx context.Context, actorID domain.ActorID) (*domain.Recruiter, error)
	// FindMembership returns the actor's membership in the given company, or nil.
	FindMembership(ctx context.Context, actorID domain.ActorID, companyID domain.CompanyID) (*domain.CompanyMembership, error)
	// FindCandidateByActor maps an actor token to a linked candidate profile id, or nil.
	FindCandidateByActor(ctx context.Context, actorID domain.ActorID) (*domain.CandidateID, error)
	// IsPlatformAdmin reports whether the actor is a platform admin.
	IsPlatformAdmin(ctx context.Context, actorID domain.ActorID) (bool, error)
}
