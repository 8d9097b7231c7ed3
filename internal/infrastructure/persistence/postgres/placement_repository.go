package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

// PlacementRepository persists placements and collaborator splits.
type PlacementRepository struct {
	db DB
}

func NewPlacementRepository(db DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

const (
	createPlacementSQL = `INSERT INTO placements (id, application_id, job_id, candidate_id, company_id, recruiter_id, salary, fee_percentage, fee_amount, recruiter_share, platform_share, hired_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	placementColumns = `id, application_id, job_id, candidate_id, company_id, recruiter_id, salary, fee_percentage, fee_amount, recruiter_share, platform_share, hired_at`

	lockPlacementSQL = `SELECT 1 FROM placements WHERE id = $1 FOR UPDATE`
	sumSplitsSQL     = `SELECT COALESCE(SUM(split_percentage), 0) FROM placement_collaborators WHERE placement_id = $1`
	insertCollabSQL  = `INSERT INTO placement_collaborators (id, placement_id, recruiter_actor_id, role, split_percentage, split_amount, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	listCollabSQL = `SELECT id, placement_id, recruiter_actor_id, role, split_percentage, split_amount, notes, created_at
FROM placement_collaborators WHERE placement_id = $1 ORDER BY created_at ASC`
)

func (r *PlacementRepository) Create(ctx context.Context, p *domain.Placement) error {
	_, err := r.db.Exec(ctx, createPlacementSQL,
		p.ID.UUID, p.ApplicationID.UUID, p.JobID.UUID, p.CandidateID.UUID,
		p.CompanyID.UUID, p.RecruiterID.UUID, p.Salary, p.FeePercentage,
		p.FeeAmount, p.RecruiterShare, p.PlatformShare, p.HiredAt)
	return err
}

func (r *PlacementRepository) GetByID(ctx context.Context, id domain.PlacementID) (*domain.Placement, error) {
	row := r.db.QueryRow(ctx, `SELECT `+placementColumns+` FROM placements WHERE id = $1`, id.UUID)
	return scanPlacement(row)
}

func (r *PlacementRepository) GetByApplication(ctx context.Context, id domain.ApplicationID) (*domain.Placement, error) {
	row := r.db.QueryRow(ctx, `SELECT `+placementColumns+` FROM placements WHERE application_id = $1`, id.UUID)
	return scanPlacement(row)
}

// AddCollaborator inserts a split row inside a transaction that locks the
// placement and re-sums existing splits. Two concurrent adds serialize on
// the row lock, so the 100% ceiling holds without relying on the caller.
func (r *PlacementRepository) AddCollaborator(ctx context.Context, c *domain.PlacementCollaborator) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var one int
	if err := tx.QueryRow(ctx, lockPlacementSQL, c.PlacementID.UUID).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return domerrors.ErrNotFound
		}
		return err
	}

	var sum float64
	if err := tx.QueryRow(ctx, sumSplitsSQL, c.PlacementID.UUID).Scan(&sum); err != nil {
		return err
	}
	if sum+c.SplitPercentage > 100 {
		return domerrors.ErrSplitOverflow
	}

	_, err = tx.Exec(ctx, insertCollabSQL,
		c.ID, c.PlacementID.UUID, c.RecruiterActorID.String(), c.Role,
		c.SplitPercentage, c.SplitAmount, c.Notes, c.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PlacementRepository) ListCollaborators(ctx context.Context, id domain.PlacementID) ([]*domain.PlacementCollaborator, error) {
	rows, err := r.db.Query(ctx, listCollabSQL, id.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.PlacementCollaborator
	for rows.Next() {
		var (
			c         domain.PlacementCollaborator
			placement domain.PlacementID
			actor     string
		)
		err := rows.Scan(&c.ID, &placement.UUID, &actor, &c.Role,
			&c.SplitPercentage, &c.SplitAmount, &c.Notes, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		c.PlacementID = placement
		c.RecruiterActorID = domain.ActorID(actor)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func scanPlacement(row pgx.Row) (*domain.Placement, error) {
	var (
		p         domain.Placement
		id        domain.PlacementID
		app       domain.ApplicationID
		job       domain.JobID
		candidate domain.CandidateID
		company   domain.CompanyID
		recruiter domain.RecruiterID
	)
	err := row.Scan(&id.UUID, &app.UUID, &job.UUID, &candidate.UUID, &company.UUID, &recruiter.UUID,
		&p.Salary, &p.FeePercentage, &p.FeeAmount, &p.RecruiterShare, &p.PlatformShare, &p.HiredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.ID = id
	p.ApplicationID = app
	p.JobID = job
	p.CandidateID = candidate
	p.CompanyID = company
	p.RecruiterID = recruiter
	return &p, nil
}

var _ ports.PlacementRepository = (*PlacementRepository)(nil)
