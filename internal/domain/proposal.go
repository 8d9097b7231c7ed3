package domain

import "time"

// ProposalType classifies an application for display and routing. It is a
// pure function of (stage, has recruiter); nothing extra is stored.
type ProposalType string

const (
	ProposalJobOpportunity    ProposalType = "job_opportunity"
	ProposalDirectApplication ProposalType = "direct_application"
	ProposalApplicationScreen ProposalType = "application_screen"
	ProposalApplicationReview ProposalType = "application_review"
	ProposalCollaboration     ProposalType = "collaboration"
	ProposalJobOffer          ProposalType = "job_offer"
)

// PendingParty identifies who must act next on an application.
type PendingParty string

const (
	PartyCandidate PendingParty = "candidate"
	PartyRecruiter PendingParty = "recruiter"
	PartyCompany   PendingParty = "company"
	PartyNone      PendingParty = "none"
)

// ProposalTypeFor derives the proposal type from the stored stage and
// whether a recruiter is attached.
func ProposalTypeFor(stage Stage, hasRecruiter bool) ProposalType {
	switch stage {
	case StageRecruiterProposed:
		return ProposalJobOpportunity
	case StageDraft:
		if hasRecruiter {
			return ProposalCollaboration
		}
		return ProposalDirectApplication
	case StageAIReview, StageScreen:
		return ProposalApplicationScreen
	case StageOffer, StageHired:
		return ProposalJobOffer
	default:
		return ProposalApplicationReview
	}
}

// PendingPartyFor derives who must act next from the stage alone.
// recruiter_proposed waits on the candidate accepting the opportunity;
// submitted, interview and offer wait on the company; screen waits on the
// recruiter; draft waits on the candidate finishing; ai_review runs without
// a human party; terminal stages wait on nobody.
func PendingPartyFor(stage Stage) PendingParty {
	switch stage {
	case StageRecruiterProposed, StageDraft:
		return PartyCandidate
	case StageScreen:
		return PartyRecruiter
	case StageSubmitted, StageInterview, StageOffer:
		return PartyCompany
	default:
		return PartyNone
	}
}

// StatusBadge is the human-readable label shown next to a proposal.
func StatusBadge(stage Stage) string {
	switch stage {
	case StageDraft:
		return "Draft"
	case StageAIReview:
		return "In review"
	case StageScreen:
		return "Screening"
	case StageSubmitted:
		return "Submitted"
	case StageInterview:
		return "Interviewing"
	case StageOffer:
		return "Offer extended"
	case StageHired:
		return "Hired"
	case StageRejected:
		return "Not selected"
	case StageWithdrawn:
		return "Withdrawn"
	case StageRecruiterProposed:
		return "Opportunity"
	default:
		return string(stage)
	}
}

// Urgency captures how close an application is to its action due date.
// Applications with no due date are never urgent or overdue.
type Urgency struct {
	HoursRemaining float64
	IsUrgent       bool
	IsOverdue      bool
}

// urgentWindow is how far ahead of the due date a proposal counts as urgent.
const urgentWindow = 24 * time.Hour

// UrgencyAt computes urgency for a due date at a given instant.
func UrgencyAt(due *time.Time, now time.Time) Urgency {
	if due == nil {
		return Urgency{}
	}
	remaining := due.Sub(now)
	u := Urgency{HoursRemaining: remaining.Hours()}
	switch {
	case remaining < 0:
		u.IsOverdue = true
	case remaining < urgentWindow:
		u.IsUrgent = true
	}
	return u
}

// CanActorAct reports whether the caller may act on the application right
// now: the caller's capability must match the pending party and the
// caller's own id must match the relevant foreign key. companyID is the
// company owning the application's job. Platform admins may always act.
func CanActorAct(app Application, companyID CompanyID, caps CapabilitySet) bool {
	if caps.PlatformAdmin {
		return true
	}
	switch PendingPartyFor(app.Stage) {
	case PartyCandidate:
		return caps.CandidateID != nil && *caps.CandidateID == app.CandidateID
	case PartyRecruiter:
		return caps.RecruiterID != nil && app.RecruiterID != nil && *caps.RecruiterID == *app.RecruiterID
	case PartyCompany:
		return caps.MembershipFor(companyID) != nil
	default:
		return false
	}
}

// Proposal is an application enriched with the derived workflow fields the
// listing and detail endpoints return.
type Proposal struct {
	Application Application
	Type        ProposalType
	Pending     PendingParty
	Badge       string
	Urgency     Urgency
	CanAct      bool
}

// BuildProposal derives all workflow fields for one application row.
func BuildProposal(app Application, companyID CompanyID, caps CapabilitySet, now time.Time) Proposal {
	return Proposal{
		Application: app,
		Type:        ProposalTypeFor(app.Stage, app.HasRecruiter()),
		Pending:     PendingPartyFor(app.Stage),
		Badge:       StatusBadge(app.Stage),
		Urgency:     UrgencyAt(app.ActionDueDate, now),
		CanAct:      CanActorAct(app, companyID, caps),
	}
}
