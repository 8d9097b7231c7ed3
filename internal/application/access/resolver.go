package access

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// Resolver classifies a caller into a capability set. The caller arrives as
// an opaque actor token; authentication already happened at the gateway, so
// a token that maps to nothing yields an empty set rather than an error.
type Resolver struct {
	directory ports.IdentityDirectory
}

func NewResolver(directory ports.IdentityDirectory) *Resolver {
	return &Resolver{directory: directory}
}

// ResolveInput carries the caller identity and the optional organization
// hint used for the membership lookup.
type ResolveInput struct {
	ActorID   domain.ActorID
	CompanyID *domain.CompanyID
}

// Resolve runs the four identity lookups concurrently and joins them into
// one capability set. The lookups touch disjoint data, so the fan-out is a
// latency optimization, not a correctness requirement. Store failures on
// any branch fail the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, input ResolveInput) (domain.CapabilitySet, error) {
	var (
		recruiter  *domain.Recruiter
		membership *domain.CompanyMembership
		candidate  *domain.CandidateID
		admin      bool
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recruiter, err = r.directory.FindRecruiterByActor(ctx, input.ActorID)
		return err
	})
	if input.CompanyID != nil {
		companyID := *input.CompanyID
		g.Go(func() error {
			var err error
			membership, err = r.directory.FindMembership(ctx, input.ActorID, companyID)
			return err
		})
	}
	g.Go(func() error {
		var err error
		candidate, err = r.directory.FindCandidateByActor(ctx, input.ActorID)
		return err
	})
	g.Go(func() error {
		var err error
		admin, err = r.directory.IsPlatformAdmin(ctx, input.ActorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CapabilitySet{}, err
	}

	caps := domain.CapabilitySet{PlatformAdmin: admin, CandidateID: candidate}
	if recruiter != nil && recruiter.Active() {
		id := recruiter.ID
		caps.RecruiterID = &id
	}
	if membership != nil {
		caps.Memberships = append(caps.Memberships, *membership)
	}
	return caps, nil
}
