package ports

import "context"

// Domain event types published after state-changing operations.
const (
	EventApplicationCreated      = "application.created"
	EventApplicationStageChanged = "application.stage_changed"
	EventApplicationAccepted     = "application.accepted"
	EventCandidateSourced        = "candidate.sourced"
	EventCandidateOutreachSent   = "candidate.outreach_sent"
	EventCollaborationAccepted   = "collaboration.accepted"
	EventPlacementCreated        = "placement.created"
)

// EventPublisher hands domain events to external subscribers. Delivery is
// best-effort and fire-and-forget: publish failures are logged by the
// implementation and must never roll back the state change that triggered
// them.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
