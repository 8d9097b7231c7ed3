package domain

import "time"

// Sourcer types. Platform sourcing covers candidates brought in by internal
// tooling rather than a marketplace recruiter.
const (
	SourcerTypeRecruiter = "recruiter"
	SourcerTypePlatform  = "platform"
)

// DefaultProtectionWindowDays is the exclusivity window granted on sourcing
// when the caller does not ask for a specific one.
const DefaultProtectionWindowDays = 365

// CandidateSourcer credits the actor who first brought a candidate into the
// system and grants a time-limited exclusive working relationship. At most
// one active (non-expired) sourcer exists per candidate; rows are audit
// records and are never deleted, only superseded after expiry.
type CandidateSourcer struct {
	ID                   string
	CandidateID          CandidateID
	SourcerActorID       ActorID
	SourcerType          string
	SourcedAt            time.Time
	ProtectionWindowDays int
	ProtectionExpiresAt  time.Time
	Notes                string
}

// ActiveAt reports whether the protection window still covers now.
func (s CandidateSourcer) ActiveAt(now time.Time) bool {
	return now.Before(s.ProtectionExpiresAt)
}

// Outreach engagement events applied as field updates to an existing row.
const (
	EngagementOpened       = "opened"
	EngagementClicked      = "clicked"
	EngagementReplied      = "replied"
	EngagementBounced      = "bounced"
	EngagementUnsubscribed = "unsubscribed"
)

// OutreachRecord is an append-only record of one recruiter-to-candidate
// message. Engagement updates mutate tracking fields on the same row; the
// message itself is immutable.
type OutreachRecord struct {
	ID             OutreachID
	CandidateID    CandidateID
	RecruiterID    RecruiterID
	JobID          *JobID
	Subject        string
	Body           string
	SentAt         time.Time
	OpenedAt       *time.Time
	ClickedAt      *time.Time
	RepliedAt      *time.Time
	BouncedAt      *time.Time
	UnsubscribedAt *time.Time
}
