package sourcing

import (
	"context"
	"fmt"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type UpdateEngagement struct {
	outreach ports.OutreachRepository
	clock    ports.Clock
}

func NewUpdateEngagement(outreach ports.OutreachRepository, clock ports.Clock) *UpdateEngagement {
	return &UpdateEngagement{outreach: outreach, clock: clock}
}

// Execute stamps an engagement event (opened, clicked, replied, bounced,
// unsubscribed) onto the existing outreach row. Engagement is tracking
// state, not history, so it updates fields in place rather than appending
// rows.
func (uc *UpdateEngagement) Execute(ctx context.Context, id domain.OutreachID, event string) (*domain.OutreachRecord, error) {
	switch event {
	case domain.EngagementOpened, domain.EngagementClicked, domain.EngagementReplied,
		domain.EngagementBounced, domain.EngagementUnsubscribed:
	default:
		return nil, fmt.Errorf("unknown engagement event %q", event)
	}
	existing, err := uc.outreach.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domerrors.ErrNotFound
	}
	if err := uc.outreach.RecordEngagement(ctx, id, event, uc.clock.Now()); err != nil {
		return nil, err
	}
	return uc.outreach.GetByID(ctx, id)
}
