package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type TransitionInput struct {
	ApplicationID domain.ApplicationID
	NewStage      domain.Stage
	Notes         string
	Actor         ActorContext
}

type Transition struct {
	apps   ports.ApplicationRepository
	jobs   ports.JobRepository
	audit  ports.AuditLogRepository
	events ports.EventPublisher
	clock  ports.Clock
}

func NewTransition(apps ports.ApplicationRepository, jobs ports.JobRepository, audit ports.AuditLogRepository, events ports.EventPublisher, clock ports.Clock) *Transition {
	return &Transition{apps: apps, jobs: jobs, audit: audit, events: events, clock: clock}
}

// Execute moves the application to a new stage. Terminal stages and
// non-adjacent jumps fail with ErrInvalidTransition. The caller must be
// the pending action party for the row, with two carve-outs that exist
// regardless of whose turn it is: the linked candidate may always withdraw,
// and the owning company may always reject.
func (uc *Transition) Execute(ctx context.Context, input TransitionInput) (*domain.Application, error) {
	app, job, err := loadWithJob(ctx, uc.apps, uc.jobs, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !covers(*app, job.CompanyID, input.Actor.Capabilities) {
		return nil, domerrors.ErrForbidden
	}
	if !uc.allowed(*app, job.CompanyID, input) {
		return nil, domerrors.ErrForbidden
	}
	if !app.Stage.CanTransitionTo(input.NewStage) {
		return nil, domerrors.ErrInvalidTransition
	}

	now := uc.clock.Now()
	if err := uc.apps.UpdateStage(ctx, app.ID, input.NewStage, input.Notes, now); err != nil {
		return nil, err
	}
	actorID := input.Actor.ActorID
	if err := uc.audit.Append(ctx, &domain.AuditLogEntry{
		ID:               uuid.NewString(),
		ApplicationID:    app.ID,
		Action:           domain.AuditActionStageChanged,
		PerformedByActor: &actorID,
		PerformedByRole:  input.Actor.role(*app, job.CompanyID),
		OldValue:         string(app.Stage),
		NewValue:         string(input.NewStage),
		CreatedAt:        now,
	}); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventApplicationStageChanged, map[string]string{
		"application_id": app.ID.String(),
		"old_stage":      string(app.Stage),
		"new_stage":      string(input.NewStage),
	})

	app.Stage = input.NewStage
	if input.Notes != "" {
		app.Notes = input.Notes
	}
	app.UpdatedAt = now
	return app, nil
}

func (uc *Transition) allowed(app domain.Application, companyID domain.CompanyID, input TransitionInput) bool {
	caps := input.Actor.Capabilities
	if domain.CanActorAct(app, companyID, caps) {
		return true
	}
	if input.NewStage == domain.StageWithdrawn {
		return caps.CandidateID != nil && *caps.CandidateID == app.CandidateID
	}
	if input.NewStage == domain.StageRejected {
		return caps.MembershipFor(companyID) != nil
	}
	return false
}
