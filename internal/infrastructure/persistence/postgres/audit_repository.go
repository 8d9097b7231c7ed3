package postgres

import (
	"context"
	"encoding/json"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// AuditLogRepository is append-only storage for workflow audit entries.
type AuditLogRepository struct {
	db Queryer
}

func NewAuditLogRepository(db Queryer) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

const (
	appendAuditSQL = `INSERT INTO application_audit_log (id, application_id, action, performed_by_actor, performed_by_role, old_value, new_value, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	listAuditSQL = `SELECT id, application_id, action, performed_by_actor, performed_by_role, old_value, new_value, metadata, created_at
FROM application_audit_log WHERE application_id = $1 ORDER BY created_at ASC`
)

func (r *AuditLogRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	var actor any
	if entry.PerformedByActor != nil {
		actor = entry.PerformedByActor.String()
	}
	var metadata []byte
	if len(entry.Metadata) > 0 {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		metadata = b
	}
	_, err := r.db.Exec(ctx, appendAuditSQL,
		entry.ID, entry.ApplicationID.UUID, entry.Action, actor, entry.PerformedByRole,
		entry.OldValue, entry.NewValue, metadata, entry.CreatedAt)
	return err
}

func (r *AuditLogRepository) ListByApplication(ctx context.Context, id domain.ApplicationID) ([]*domain.AuditLogEntry, error) {
	rows, err := r.db.Query(ctx, listAuditSQL, id.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLogEntry
	for rows.Next() {
		var (
			entry    domain.AuditLogEntry
			appID    domain.ApplicationID
			actor    *string
			metadata []byte
		)
		err := rows.Scan(&entry.ID, &appID.UUID, &entry.Action, &actor, &entry.PerformedByRole,
			&entry.OldValue, &entry.NewValue, &metadata, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entry.ApplicationID = appID
		if actor != nil {
			a := domain.ActorID(*actor)
			entry.PerformedByActor = &a
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, &entry)
	}
	return out, rows.Err()
}

var _ ports.AuditLogRepository = (*AuditLogRepository)(nil)
