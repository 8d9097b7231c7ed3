package collab

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type CreatePlacementInput struct {
	ApplicationID domain.ApplicationID
	Salary        float64
	// FeePercentage defaults to the job's fee when <= 0.
	FeePercentage float64
	// PlatformSharePct defaults to domain.DefaultPlatformSharePct when <= 0.
	PlatformSharePct float64
	Capabilities     domain.CapabilitySet
}

type CreatePlacement struct {
	placements ports.PlacementRepository
	apps       ports.ApplicationRepository
	jobs       ports.JobRepository
	events     ports.EventPublisher
	clock      ports.Clock
}

func NewCreatePlacement(placements ports.PlacementRepository, apps ports.ApplicationRepository, jobs ports.JobRepository, events ports.EventPublisher, clock ports.Clock) *CreatePlacement {
	return &CreatePlacement{placements: placements, apps: apps, jobs: jobs, events: events, clock: clock}
}

// Execute records the hire for an application. A placement exists at most
// once per application; repeating the call returns the existing row. The
// application must have reached hired and been accepted by the company.
func (uc *CreatePlacement) Execute(ctx context.Context, input CreatePlacementInput) (*domain.Placement, error) {
	app, err := uc.apps.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domerrors.ErrNotFound
	}
	job, err := uc.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domerrors.ErrNotFound
	}
	caps := input.Capabilities
	if !caps.PlatformAdmin && caps.MembershipFor(job.CompanyID) == nil {
		return nil, domerrors.ErrForbidden
	}
	if app.Stage != domain.StageHired || !app.AcceptedByCompany {
		return nil, domerrors.ErrInvalidTransition
	}
	if app.RecruiterID == nil {
		return nil, fmt.Errorf("application %s has no recruiter to credit", app.ID)
	}

	existing, err := uc.placements.GetByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	feePct := input.FeePercentage
	if feePct <= 0 {
		feePct = job.FeePercentage
	}
	platformPct := input.PlatformSharePct
	if platformPct <= 0 {
		platformPct = domain.DefaultPlatformSharePct
	}
	feeAmount, recruiterShare, platformShare := domain.PlacementFees(input.Salary, feePct, platformPct)

	placement := &domain.Placement{
		ID:             domain.NewPlacementID(uuid.New()),
		ApplicationID:  app.ID,
		JobID:          job.ID,
		CandidateID:    app.CandidateID,
		CompanyID:      job.CompanyID,
		RecruiterID:    *app.RecruiterID,
		Salary:         input.Salary,
		FeePercentage:  feePct,
		FeeAmount:      feeAmount,
		RecruiterShare: recruiterShare,
		PlatformShare:  platformShare,
		HiredAt:        uc.clock.Now(),
	}
	if err := uc.placements.Create(ctx, placement); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventPlacementCreated, map[string]string{
		"placement_id":   placement.ID.String(),
		"application_id": placement.ApplicationID.String(),
		"company_id":     placement.CompanyID.String(),
		"recruiter_id":   placement.RecruiterID.String(),
	})
	return placement, nil
}
