package domain

import "time"

// Stage is the stored workflow state of an application. Everything else the
// API reports about workflow position (proposal type, pending party,
// urgency) is derived from it.
type Stage string

const (
	StageDraft             Stage = "draft"
	StageAIReview          Stage = "ai_review"
	StageScreen            Stage = "screen"
	StageSubmitted         Stage = "submitted"
	StageInterview         Stage = "interview"
	StageOffer             Stage = "offer"
	StageHired             Stage = "hired"
	StageRejected          Stage = "rejected"
	StageWithdrawn         Stage = "withdrawn"
	StageRecruiterProposed Stage = "recruiter_proposed"
)

// stageSuccessors holds the forward edges of the workflow. Rejected and
// withdrawn are reachable from every non-terminal stage and are appended in
// CanTransitionTo rather than listed per stage.
var stageSuccessors = map[Stage][]Stage{
	StageDraft:             {StageAIReview, StageScreen},
	StageAIReview:          {StageScreen},
	StageScreen:            {StageSubmitted},
	StageSubmitted:         {StageInterview},
	StageInterview:         {StageOffer},
	StageOffer:             {StageHired},
	StageRecruiterProposed: {StageScreen, StageSubmitted},
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageDraft, StageAIReview, StageScreen, StageSubmitted, StageInterview,
		StageOffer, StageHired, StageRejected, StageWithdrawn, StageRecruiterProposed:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s Stage) Terminal() bool {
	return s == StageHired || s == StageRejected || s == StageWithdrawn
}

// CanTransitionTo reports whether the workflow permits moving from s to next.
func (s Stage) CanTransitionTo(next Stage) bool {
	if s.Terminal() || !next.Valid() || s == next {
		return false
	}
	if next == StageRejected || next == StageWithdrawn {
		return true
	}
	for _, allowed := range stageSuccessors[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application is the shared workflow object among candidate, recruiter and
// company. No single actor owns it; it mutates only through stage
// transitions and acceptance, each of which appends an audit entry.
type Application struct {
	ID                ApplicationID
	JobID             JobID
	CandidateID       CandidateID
	RecruiterID       *RecruiterID
	Stage             Stage
	Notes             string
	AcceptedByCompany bool
	AcceptedAt        *time.Time
	ActionDueDate     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasRecruiter reports whether a recruiter submitted or works this
// application.
func (a Application) HasRecruiter() bool { return a.RecruiterID != nil }

// Audit log actions.
const (
	AuditActionCreated      = "created"
	AuditActionStageChanged = "stage_changed"
	AuditActionAccepted     = "accepted"
)

// AuditLogEntry is one immutable record of a workflow mutation. Entries are
// append-only; the core reads them back only to serve per-application
// history.
type AuditLogEntry struct {
	ID                string
	ApplicationID     ApplicationID
	Action            string
	PerformedByActor  *ActorID
	PerformedByRole   string
	OldValue          string
	NewValue          string
	Metadata          map[string]string
	CreatedAt         time.Time
}
