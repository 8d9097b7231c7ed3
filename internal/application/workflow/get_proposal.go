package workflow

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type GetProposal struct {
	apps  ports.ApplicationRepository
	jobs  ports.JobRepository
	clock ports.Clock
}

func NewGetProposal(apps ports.ApplicationRepository, jobs ports.JobRepository, clock ports.Clock) *GetProposal {
	return &GetProposal{apps: apps, jobs: jobs, clock: clock}
}

// Execute returns one application enriched with its derived proposal
// fields. The caller already knows the id, so a capability miss is
// ErrForbidden, not an empty result.
func (uc *GetProposal) Execute(ctx context.Context, id domain.ApplicationID, caps domain.CapabilitySet) (*domain.Proposal, error) {
	app, job, err := loadWithJob(ctx, uc.apps, uc.jobs, id)
	if err != nil {
		return nil, err
	}
	if !covers(*app, job.CompanyID, caps) {
		return nil, domerrors.ErrForbidden
	}
	p := domain.BuildProposal(*app, job.CompanyID, caps, uc.clock.Now())
	return &p, nil
}
