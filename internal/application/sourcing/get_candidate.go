package sourcing

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type GetCandidate struct {
	candidates ports.CandidateRepository
	sourcers   ports.SourcerRepository
	clock      ports.Clock
}

func NewGetCandidate(candidates ports.CandidateRepository, sourcers ports.SourcerRepository, clock ports.Clock) *GetCandidate {
	return &GetCandidate{candidates: candidates, sourcers: sourcers, clock: clock}
}

// Execute returns the candidate profile for a single-entity read. Unlike
// listings, the caller already knows the id, so a capability miss surfaces
// as ErrForbidden instead of a silent empty result. Company callers see
// masked PII until one of the candidate's applications to their jobs has
// been accepted; the sourcing recruiter, the candidate themselves, and
// platform admins see the full record.
func (uc *GetCandidate) Execute(ctx context.Context, id domain.CandidateID, caps domain.CapabilitySet) (*domain.Candidate, error) {
	candidate, err := uc.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, domerrors.ErrNotFound
	}

	if caps.PlatformAdmin {
		return candidate, nil
	}
	if caps.CandidateID != nil && *caps.CandidateID == id {
		return candidate, nil
	}
	if caps.RecruiterID != nil {
		active, err := uc.sourcers.GetActive(ctx, id, uc.clock.Now())
		if err != nil {
			return nil, err
		}
		if active != nil && active.SourcerActorID == domain.ActorID(caps.RecruiterID.String()) {
			return candidate, nil
		}
	}
	for _, m := range caps.Memberships {
		if !m.Qualifies() {
			continue
		}
		visible, err := uc.candidates.HasApplicationWithCompany(ctx, id, m.CompanyID)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		accepted, err := uc.candidates.HasAcceptedApplicationWithCompany(ctx, id, m.CompanyID)
		if err != nil {
			return nil, err
		}
		masked := domain.MaskPII(*candidate, accepted)
		return &masked, nil
	}
	return nil, domerrors.ErrForbidden
}
