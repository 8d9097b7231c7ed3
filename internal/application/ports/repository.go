package ports

import (
	"context"
	"time"

	"github.com/splits-network/splits-sub003/internal/domain"
)

// SourcerRepository defines persistence for candidate ownership records.
type SourcerRepository interface {
	// Create inserts a sourcer row. The store enforces at most one active
	// sourcer per candidate; a losing concurrent writer gets ErrAlreadyOwned.
	Create(ctx context.Context, sourcer *domain.CandidateSourcer) error
	// GetActive returns the sourcer whose protection window covers now, or nil.
	GetActive(ctx context.Context, candidateID domain.CandidateID, now time.Time) (*domain.CandidateSourcer, error)
	// UpdateNotes corrects the notes field; everything else is immutable.
	UpdateNotes(ctx context.Context, id string, notes string) error
}

// OutreachRepository defines persistence for outreach records.
type OutreachRepository interface {
	Create(ctx context.Context, rec *domain.OutreachRecord) error
	GetByID(ctx context.Context, id domain.OutreachID) (*domain.OutreachRecord, error)
	// RecordEngagement stamps an engagement timestamp on the existing row.
	RecordEngagement(ctx context.Context, id domain.OutreachID, event string, at time.Time) error
}

// CandidateRepository reads candidate profiles.
type CandidateRepository interface {
	GetByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error)
	// HasApplicationWithCompany reports whether the candidate has applied
	// to any of the company's jobs. Gates company visibility of the profile.
	HasApplicationWithCompany(ctx context.Context, candidateID domain.CandidateID, companyID domain.CompanyID) (bool, error)
	// HasAcceptedApplicationWithCompany reports whether any of the
	// candidate's applications to the company's jobs has been accepted.
	// Drives PII unmasking for company callers.
	HasAcceptedApplicationWithCompany(ctx context.Context, candidateID domain.CandidateID, companyID domain.CompanyID) (bool, error)
}

// ApplicationRepository defines persistence for applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error)
	UpdateStage(ctx context.Context, id domain.ApplicationID, stage domain.Stage, notes string, at time.Time) error
	// MarkAccepted sets accepted_by_company once. Returns false when the row
	// was already accepted, so callers can stay idempotent without a
	// read-modify-write race.
	MarkAccepted(ctx context.Context, id domain.ApplicationID, at time.Time) (bool, error)
}

// JobRepository reads jobs.
type JobRepository interface {
	GetByID(ctx context.Context, id domain.JobID) (*domain.Job, error)
}

// AuditLogRepository is append-only. Entries are read back only to serve
// per-application history.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
	ListByApplication(ctx context.Context, id domain.ApplicationID) ([]*domain.AuditLogEntry, error)
}

// PlacementRepository defines persistence for placements and their
// collaborator splits.
type PlacementRepository interface {
	Create(ctx context.Context, placement *domain.Placement) error
	GetByID(ctx context.Context, id domain.PlacementID) (*domain.Placement, error)
	// GetByApplication returns the placement for an application, or nil.
	GetByApplication(ctx context.Context, id domain.ApplicationID) (*domain.Placement, error)
	// AddCollaborator inserts a collaborator after re-summing existing
	// splits inside the same transaction; ErrSplitOverflow past 100%.
	AddCollaborator(ctx context.Context, collab *domain.PlacementCollaborator) error
	ListCollaborators(ctx context.Context, id domain.PlacementID) ([]*domain.PlacementCollaborator, error)
}
