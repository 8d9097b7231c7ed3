package sourcing

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type GetSourcer struct {
	sourcers ports.SourcerRepository
	clock    ports.Clock
}

func NewGetSourcer(sourcers ports.SourcerRepository, clock ports.Clock) *GetSourcer {
	return &GetSourcer{sourcers: sourcers, clock: clock}
}

// Execute returns the candidate's active sourcer, or ErrNotFound when no
// protection window covers now.
func (uc *GetSourcer) Execute(ctx context.Context, candidateID domain.CandidateID) (*domain.CandidateSourcer, error) {
	active, err := uc.sourcers.GetActive(ctx, candidateID, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, domerrors.ErrNotFound
	}
	return active, nil
}
