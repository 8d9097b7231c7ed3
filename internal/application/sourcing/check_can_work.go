package sourcing

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

type CheckCanWork struct {
	sourcers ports.SourcerRepository
	clock    ports.Clock
}

func NewCheckCanWork(sourcers ports.SourcerRepository, clock ports.Clock) *CheckCanWork {
	return &CheckCanWork{sourcers: sourcers, clock: clock}
}

// Execute reports whether the actor may work the candidate: true when no
// sourcer exists, the protection window has expired, or the active sourcer
// is the actor itself.
func (uc *CheckCanWork) Execute(ctx context.Context, candidateID domain.CandidateID, actorID domain.ActorID) (bool, error) {
	active, err := uc.sourcers.GetActive(ctx, candidateID, uc.clock.Now())
	if err != nil {
		return false, err
	}
	return active == nil || active.SourcerActorID == actorID, nil
}
