package collab

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type AddCollaboratorInput struct {
	PlacementID      domain.PlacementID
	RecruiterActorID domain.ActorID
	Role             string
	SplitPercentage  float64
	SplitAmount      float64
	Notes            string
	Capabilities     domain.CapabilitySet
}

type AddCollaborator struct {
	placements ports.PlacementRepository
	events     ports.EventPublisher
	clock      ports.Clock
}

func NewAddCollaborator(placements ports.PlacementRepository, events ports.EventPublisher, clock ports.Clock) *AddCollaborator {
	return &AddCollaborator{placements: placements, events: events, clock: clock}
}

// Execute records one recruiter's share of a placement fee. The repository
// re-sums existing splits inside the insert transaction, so the 100%
// ceiling holds even against concurrent adds; a violation surfaces as
// ErrSplitOverflow with nothing written.
func (uc *AddCollaborator) Execute(ctx context.Context, input AddCollaboratorInput) (*domain.PlacementCollaborator, error) {
	if !domain.ValidCollaboratorRole(input.Role) {
		return nil, fmt.Errorf("unknown collaborator role %q", input.Role)
	}
	if input.SplitPercentage <= 0 || input.SplitPercentage > 100 {
		return nil, fmt.Errorf("split percentage %.2f out of range", input.SplitPercentage)
	}

	placement, err := uc.placements.GetByID(ctx, input.PlacementID)
	if err != nil {
		return nil, err
	}
	if placement == nil {
		return nil, domerrors.ErrNotFound
	}
	caps := input.Capabilities
	if !caps.PlatformAdmin && (caps.RecruiterID == nil || placement.RecruiterID != *caps.RecruiterID) {
		return nil, domerrors.ErrForbidden
	}

	collab := &domain.PlacementCollaborator{
		ID:               uuid.NewString(),
		PlacementID:      input.PlacementID,
		RecruiterActorID: input.RecruiterActorID,
		Role:             input.Role,
		SplitPercentage:  input.SplitPercentage,
		SplitAmount:      input.SplitAmount,
		Notes:            input.Notes,
		CreatedAt:        uc.clock.Now(),
	}
	if err := uc.placements.AddCollaborator(ctx, collab); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventCollaborationAccepted, map[string]string{
		"placement_id": collab.PlacementID.String(),
		"recruiter_id": collab.RecruiterActorID.String(),
		"role":         collab.Role,
	})
	return collab, nil
}
