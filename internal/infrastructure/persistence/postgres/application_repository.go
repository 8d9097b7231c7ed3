package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type ApplicationRepository struct {
	db Queryer
}

func NewApplicationRepository(db Queryer) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const (
	createApplicationSQL = `INSERT INTO applications (id, job_id, candidate_id, recruiter_id, stage, notes, accepted_by_company, action_due_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	getApplicationSQL = `SELECT id, job_id, candidate_id, recruiter_id, stage, notes, accepted_by_company, accepted_at, action_due_date, created_at, updated_at
FROM applications WHERE id = $1`
	// NULLIF keeps the stored notes on a note-less transition, matching the
	// in-memory overlay in the workflow layer.
	updateStageSQL  = `UPDATE applications SET stage = $2, notes = COALESCE(NULLIF($3, ''), notes), updated_at = $4 WHERE id = $1`
	markAcceptedSQL = `UPDATE applications SET accepted_by_company = TRUE, accepted_at = $2, updated_at = $2
WHERE id = $1 AND NOT accepted_by_company`
)

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	var recruiterID any
	if app.RecruiterID != nil {
		recruiterID = app.RecruiterID.UUID
	}
	_, err := r.db.Exec(ctx, createApplicationSQL,
		app.ID.UUID, app.JobID.UUID, app.CandidateID.UUID, recruiterID,
		string(app.Stage), app.Notes, app.AcceptedByCompany, app.ActionDueDate,
		app.CreatedAt, app.UpdatedAt)
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error) {
	row := r.db.QueryRow(ctx, getApplicationSQL, id.UUID)
	app, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) UpdateStage(ctx context.Context, id domain.ApplicationID, stage domain.Stage, notes string, at time.Time) error {
	tag, err := r.db.Exec(ctx, updateStageSQL, id.UUID, string(stage), notes, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

// MarkAccepted flips accepted_by_company at most once. The WHERE clause
// makes concurrent accepts race-free: exactly one caller sees true.
func (r *ApplicationRepository) MarkAccepted(ctx context.Context, id domain.ApplicationID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markAcceptedSQL, id.UUID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app       domain.Application
		id        domain.ApplicationID
		jobID     domain.JobID
		candidate domain.CandidateID
		recruiter *uuid.UUID
		stage     string
	)
	err := row.Scan(&id.UUID, &jobID.UUID, &candidate.UUID, &recruiter, &stage,
		&app.Notes, &app.AcceptedByCompany, &app.AcceptedAt, &app.ActionDueDate,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	app.ID = id
	app.JobID = jobID
	app.CandidateID = candidate
	if recruiter != nil {
		rid := domain.NewRecruiterID(*recruiter)
		app.RecruiterID = &rid
	}
	app.Stage = domain.Stage(stage)
	return &app, nil
}

var _ ports.ApplicationRepository = (*ApplicationRepository)(nil)
