package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type AcceptInput struct {
	ApplicationID domain.ApplicationID
	Actor         ActorContext
}

type Accept struct {
	apps   ports.ApplicationRepository
	jobs   ports.JobRepository
	audit  ports.AuditLogRepository
	events ports.EventPublisher
	clock  ports.Clock
}

func NewAccept(apps ports.ApplicationRepository, jobs ports.JobRepository, audit ports.AuditLogRepository, events ports.EventPublisher, clock ports.Clock) *Accept {
	return &Accept{apps: apps, jobs: jobs, audit: audit, events: events, clock: clock}
}

// Execute marks the application accepted by the owning company, unlocking
// the candidate's PII for that company. Acceptance is a one-way gate and
// idempotent: a second call returns the existing state without appending a
// second audit entry or re-publishing the event. Only the owning company's
// members (or a platform admin) may accept, and only from a stage the
// company can actually see.
func (uc *Accept) Execute(ctx context.Context, input AcceptInput) (*domain.Application, error) {
	app, job, err := loadWithJob(ctx, uc.apps, uc.jobs, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	caps := input.Actor.Capabilities
	if !caps.PlatformAdmin && caps.MembershipFor(job.CompanyID) == nil {
		return nil, domerrors.ErrForbidden
	}
	if app.AcceptedByCompany {
		return app, nil
	}
	switch app.Stage {
	case domain.StageSubmitted, domain.StageInterview, domain.StageOffer, domain.StageHired:
	default:
		return nil, domerrors.ErrInvalidTransition
	}

	now := uc.clock.Now()
	accepted, err := uc.apps.MarkAccepted(ctx, app.ID, now)
	if err != nil {
		return nil, err
	}
	if !accepted {
		// Lost a race with another accept; the state is what we wanted.
		return uc.apps.GetByID(ctx, app.ID)
	}
	actorID := input.Actor.ActorID
	if err := uc.audit.Append(ctx, &domain.AuditLogEntry{
		ID:               uuid.NewString(),
		ApplicationID:    app.ID,
		Action:           domain.AuditActionAccepted,
		PerformedByActor: &actorID,
		PerformedByRole:  input.Actor.role(*app, job.CompanyID),
		OldValue:         "false",
		NewValue:         "true",
		CreatedAt:        now,
	}); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventApplicationAccepted, map[string]string{
		"application_id": app.ID.String(),
		"company_id":     job.CompanyID.String(),
	})

	app.AcceptedByCompany = true
	app.AcceptedAt = &now
	app.UpdatedAt = now
	return app, nil
}
