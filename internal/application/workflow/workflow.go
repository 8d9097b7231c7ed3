// Package workflow mutates applications: creation, stage transitions and
// company acceptance. Every mutation appends one immutable audit entry and
// publishes a domain event; derived proposal fields stay pure functions in
// the domain package.
package workflow

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

// ActorContext identifies who performs a workflow mutation: the raw actor
// token for the audit trail plus the resolved capability set for permission
// checks.
type ActorContext struct {
	ActorID      domain.ActorID
	Capabilities domain.CapabilitySet
}

// role names the capability that authorized the mutation, for the audit row.
func (a ActorContext) role(app domain.Application, companyID domain.CompanyID) string {
	caps := a.Capabilities
	switch {
	case caps.PlatformAdmin:
		return "platform_admin"
	case caps.RecruiterID != nil && app.RecruiterID != nil && *caps.RecruiterID == *app.RecruiterID:
		return "recruiter"
	case caps.MembershipFor(companyID) != nil:
		return caps.MembershipFor(companyID).Role
	case caps.CandidateID != nil && *caps.CandidateID == app.CandidateID:
		return "candidate"
	default:
		return ""
	}
}

// covers reports whether any held capability reaches the application at
// all. Single-entity reads use it to distinguish forbidden from not-found.
func covers(app domain.Application, companyID domain.CompanyID, caps domain.CapabilitySet) bool {
	if caps.PlatformAdmin {
		return true
	}
	if caps.RecruiterID != nil && app.RecruiterID != nil && *caps.RecruiterID == *app.RecruiterID {
		return true
	}
	if caps.CandidateID != nil && *caps.CandidateID == app.CandidateID {
		return true
	}
	return caps.MembershipFor(companyID) != nil
}

// loadWithJob fetches the application and its job; the job carries the
// owning company every permission check needs.
func loadWithJob(ctx context.Context, apps ports.ApplicationRepository, jobs ports.JobRepository, id domain.ApplicationID) (*domain.Application, *domain.Job, error) {
	app, err := apps.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, domerrors.ErrNotFound
	}
	job, err := jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, domerrors.ErrNotFound
	}
	return app, job, nil
}
