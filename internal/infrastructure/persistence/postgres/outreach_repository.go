package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

// OutreachRepository persists recruiter-to-candidate messages. Rows are
// append-only; engagement events stamp timestamp columns on the same row.
type OutreachRepository struct {
	db Queryer
}

func NewOutreachRepository(db Queryer) *OutreachRepository {
	return &OutreachRepository{db: db}
}

const (
	createOutreachSQL = `INSERT INTO outreach_records (id, candidate_id, recruiter_id, job_id, subject, body, sent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	getOutreachSQL = `SELECT id, candidate_id, recruiter_id, job_id, subject, body, sent_at, opened_at, clicked_at, replied_at, bounced_at, unsubscribed_at
FROM outreach_records WHERE id = $1`
)

// engagementColumns maps engagement events to the timestamp column they
// stamp. Column names come from this map only, never from caller input.
var engagementColumns = map[string]string{
	domain.EngagementOpened:       "opened_at",
	domain.EngagementClicked:      "clicked_at",
	domain.EngagementReplied:      "replied_at",
	domain.EngagementBounced:      "bounced_at",
	domain.EngagementUnsubscribed: "unsubscribed_at",
}

func (r *OutreachRepository) Create(ctx context.Context, rec *domain.OutreachRecord) error {
	var jobID any
	if rec.JobID != nil {
		jobID = rec.JobID.UUID
	}
	_, err := r.db.Exec(ctx, createOutreachSQL,
		rec.ID.UUID, rec.CandidateID.UUID, rec.RecruiterID.UUID, jobID,
		rec.Subject, rec.Body, rec.SentAt)
	return err
}

func (r *OutreachRepository) GetByID(ctx context.Context, id domain.OutreachID) (*domain.OutreachRecord, error) {
	var (
		rec       domain.OutreachRecord
		outreach  domain.OutreachID
		candidate domain.CandidateID
		recruiter domain.RecruiterID
		jobUUID   *uuid.UUID
	)
	err := r.db.QueryRow(ctx, getOutreachSQL, id.UUID).Scan(
		&outreach.UUID, &candidate.UUID, &recruiter.UUID, &jobUUID,
		&rec.Subject, &rec.Body, &rec.SentAt,
		&rec.OpenedAt, &rec.ClickedAt, &rec.RepliedAt, &rec.BouncedAt, &rec.UnsubscribedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.ID = outreach
	rec.CandidateID = candidate
	rec.RecruiterID = recruiter
	if jobUUID != nil {
		jid := domain.NewJobID(*jobUUID)
		rec.JobID = &jid
	}
	return &rec, nil
}

func (r *OutreachRepository) RecordEngagement(ctx context.Context, id domain.OutreachID, event string, at time.Time) error {
	column, ok := engagementColumns[event]
	if !ok {
		return fmt.Errorf("unknown engagement event %q", event)
	}
	sql := fmt.Sprintf(`UPDATE outreach_records SET %s = $2 WHERE id = $1`, column)
	tag, err := r.db.Exec(ctx, sql, id.UUID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

var _ ports.OutreachRepository = (*OutreachRepository)(nil)
