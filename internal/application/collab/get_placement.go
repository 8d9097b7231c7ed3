package collab

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type GetPlacement struct {
	placements ports.PlacementRepository
}

func NewGetPlacement(placements ports.PlacementRepository) *GetPlacement {
	return &GetPlacement{placements: placements}
}

// Execute returns one placement and its collaborators. Visible to platform
// admins, the company that hired, the credited recruiter and any recruiter
// holding a split on it.
func (uc *GetPlacement) Execute(ctx context.Context, id domain.PlacementID, caps domain.CapabilitySet) (*domain.Placement, []*domain.PlacementCollaborator, error) {
	placement, err := uc.placements.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if placement == nil {
		return nil, nil, domerrors.ErrNotFound
	}
	collaborators, err := uc.placements.ListCollaborators(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !canSeePlacement(placement, collaborators, caps) {
		return nil, nil, domerrors.ErrForbidden
	}
	return placement, collaborators, nil
}

func canSeePlacement(p *domain.Placement, collaborators []*domain.PlacementCollaborator, caps domain.CapabilitySet) bool {
	if caps.PlatformAdmin {
		return true
	}
	if caps.MembershipFor(p.CompanyID) != nil {
		return true
	}
	if caps.CandidateID != nil && *caps.CandidateID == p.CandidateID {
		return true
	}
	if caps.RecruiterID == nil {
		return false
	}
	if *caps.RecruiterID == p.RecruiterID {
		return true
	}
	actor := domain.ActorID(caps.RecruiterID.String())
	for _, c := range collaborators {
		if c.RecruiterActorID == actor {
			return true
		}
	}
	return false
}
