package sourcing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type EstablishOwnershipInput struct {
	CandidateID domain.CandidateID
	SourcerID   domain.ActorID
	SourcerType string
	// WindowDays defaults to the configured protection window when <= 0.
	WindowDays int
	Notes      string
}

type EstablishOwnership struct {
	sourcers          ports.SourcerRepository
	events            ports.EventPublisher
	clock             ports.Clock
	defaultWindowDays int
}

func NewEstablishOwnership(sourcers ports.SourcerRepository, events ports.EventPublisher, clock ports.Clock) *EstablishOwnership {
	return &EstablishOwnership{
		sourcers:          sourcers,
		events:            events,
		clock:             clock,
		defaultWindowDays: domain.DefaultProtectionWindowDays,
	}
}

// WithDefaultWindow overrides the fallback protection window, for deployments
// that configure a different exclusivity period.
func (uc *EstablishOwnership) WithDefaultWindow(days int) *EstablishOwnership {
	if days > 0 {
		uc.defaultWindowDays = days
	}
	return uc
}

// Execute claims the candidate for the sourcer, first-claim-wins. An active
// sourcer belonging to someone else yields ErrAlreadyOwned; re-claiming by
// the same sourcer returns the existing record unchanged. The check-then-
// write race between two first claims is closed by the store's one-active-
// sourcer constraint, which the repository also surfaces as ErrAlreadyOwned.
func (uc *EstablishOwnership) Execute(ctx context.Context, input EstablishOwnershipInput) (*domain.CandidateSourcer, error) {
	now := uc.clock.Now()
	existing, err := uc.sourcers.GetActive(ctx, input.CandidateID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.SourcerActorID == input.SourcerID {
			return existing, nil
		}
		return nil, domerrors.ErrAlreadyOwned
	}

	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = uc.defaultWindowDays
	}
	sourcer := &domain.CandidateSourcer{
		ID:                   uuid.NewString(),
		CandidateID:          input.CandidateID,
		SourcerActorID:       input.SourcerID,
		SourcerType:          input.SourcerType,
		SourcedAt:            now,
		ProtectionWindowDays: windowDays,
		ProtectionExpiresAt:  now.Add(time.Duration(windowDays) * 24 * time.Hour),
		Notes:                input.Notes,
	}
	if err := uc.sourcers.Create(ctx, sourcer); err != nil {
		return nil, err
	}
	_ = uc.events.Publish(ctx, ports.EventCandidateSourced, map[string]string{
		"candidate_id": sourcer.CandidateID.String(),
		"sourcer_id":   sourcer.SourcerActorID.String(),
		"sourcer_type": sourcer.SourcerType,
		"expires_at":   sourcer.ProtectionExpiresAt.Format(time.RFC3339),
	})
	return sourcer, nil
}
