package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

type CreateApplicationInput struct {
	JobID       domain.JobID
	CandidateID domain.CandidateID
	RecruiterID *domain.RecruiterID
	// Proposed marks a recruiter-initiated opportunity; the application
	// enters at recruiter_proposed and waits on the candidate.
	Proposed bool
	Notes    string
	Actor    ActorContext
}

type CreateApplication struct {
	apps   ports.ApplicationRepository
	audit  ports.AuditLogRepository
	events ports.EventPublisher
	clock  ports.Clock
}

func NewCreateApplication(apps ports.ApplicationRepository, audit ports.AuditLogRepository, events ports.EventPublisher, clock ports.Clock) *CreateApplication {
	return &CreateApplication{apps: apps, audit: audit, events: events, clock: clock}
}

func (uc *CreateApplication) Execute(ctx context.Context, input CreateApplicationInput) (*domain.Application, error) {
	stage := domain.StageDraft
	if input.Proposed {
		if input.RecruiterID == nil {
			return nil, fmt.Errorf("a proposed application requires a recruiter")
		}
		stage = domain.StageRecruiterProposed
	}
	now := uc.clock.Now()
	app := &domain.Application{
		ID:          domain.NewApplicationID(uuid.New()),
		JobID:       input.JobID,
		CandidateID: input.CandidateID,
		RecruiterID: input.RecruiterID,
		Stage:       stage,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	actorID := input.Actor.ActorID
	if err := uc.audit.Append(ctx, &domain.AuditLogEntry{
		ID:               uuid.NewString(),
		ApplicationID:    app.ID,
		Action:           domain.AuditActionCreated,
		PerformedByActor: &actorID,
		NewValue:         string(stage),
		CreatedAt:        now,
	}); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventApplicationCreated, map[string]string{
		"application_id": app.ID.String(),
		"job_id":         app.JobID.String(),
		"candidate_id":   app.CandidateID.String(),
		"stage":          string(stage),
	})
	return app, nil
}
