package sourcing

import (
	"context"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

// firstOutreachNote is recorded on the implicitly created sourcer row.
const firstOutreachNote = "first outreach"

type RecordOutreachInput struct {
	CandidateID domain.CandidateID
	RecruiterID domain.RecruiterID
	Subject     string
	Body        string
	JobID       *domain.JobID
}

type RecordOutreach struct {
	outreach  ports.OutreachRepository
	establish *EstablishOwnership
	sourcers  ports.SourcerRepository
	events    ports.EventPublisher
	clock     ports.Clock
}

func NewRecordOutreach(outreach ports.OutreachRepository, establish *EstablishOwnership, sourcers ports.SourcerRepository, events ports.EventPublisher, clock ports.Clock) *RecordOutreach {
	return &RecordOutreach{outreach: outreach, establish: establish, sourcers: sourcers, events: events, clock: clock}
}

// Execute appends an outreach record. Outreach doubles as a sourcing
// trigger: when the candidate has no active sourcer, the recruiter claims
// them with the default window before the message is recorded. A recruiter
// whose claim loses a concurrent race (or who contacts a protected
// candidate) gets ErrAlreadyOwned and no outreach row is written.
func (uc *RecordOutreach) Execute(ctx context.Context, input RecordOutreachInput) (*domain.OutreachRecord, error) {
	actorID := domain.ActorID(input.RecruiterID.String())
	active, err := uc.sourcers.GetActive(ctx, input.CandidateID, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if active == nil {
		if _, err := uc.establish.Execute(ctx, EstablishOwnershipInput{
			CandidateID: input.CandidateID,
			SourcerID:   actorID,
			SourcerType: domain.SourcerTypeRecruiter,
			Notes:       firstOutreachNote,
		}); err != nil {
			return nil, err
		}
	} else if active.SourcerActorID != actorID {
		return nil, domerrors.ErrAlreadyOwned
	}

	rec := &domain.OutreachRecord{
		ID:          domain.NewOutreachID(uuid.New()),
		CandidateID: input.CandidateID,
		RecruiterID: input.RecruiterID,
		JobID:       input.JobID,
		Subject:     input.Subject,
		Body:        input.Body,
		SentAt:      uc.clock.Now(),
	}
	if err := uc.outreach.Create(ctx, rec); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventCandidateOutreachSent, map[string]string{
		"outreach_id":  rec.ID.String(),
		"candidate_id": rec.CandidateID.String(),
		"recruiter_id": rec.RecruiterID.String(),
	})
	return rec, nil
}
