package workflow

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type History struct {
	apps  ports.ApplicationRepository
	jobs  ports.JobRepository
	audit ports.AuditLogRepository
}

func NewHistory(apps ports.ApplicationRepository, jobs ports.JobRepository, audit ports.AuditLogRepository) *History {
	return &History{apps: apps, jobs: jobs, audit: audit}
}

// Execute returns the audit trail for one application, oldest first.
func (uc *History) Execute(ctx context.Context, id domain.ApplicationID, caps domain.CapabilitySet) ([]*domain.AuditLogEntry, error) {
	app, job, err := loadWithJob(ctx, uc.apps, uc.jobs, id)
	if err != nil {
		return nil, err
	}
	if !covers(*app, job.CompanyID, caps) {
		return nil, domerrors.ErrForbidden
	}
	return uc.audit.ListByApplication(ctx, app.ID)
}
