package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

type JobRepository struct {
	db Queryer
}

func NewJobRepository(db Queryer) *JobRepository {
	return &JobRepository{db: db}
}

const getJobSQL = `SELECT id, company_id, title, description, location, salary_min, salary_max, fee_percentage, status, created_at, updated_at
FROM jobs WHERE id = $1`

func (r *JobRepository) GetByID(ctx context.Context, id domain.JobID) (*domain.Job, error) {
	row := r.db.QueryRow(ctx, getJobSQL, id.UUID)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return j, nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		j       domain.Job
		id      domain.JobID
		company domain.CompanyID
	)
	err := row.Scan(&id.UUID, &company.UUID, &j.Title, &j.Description, &j.Location,
		&j.SalaryMin, &j.SalaryMax, &j.FeePercentage, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.ID = id
	j.CompanyID = company
	return &j, nil
}

var _ ports.JobRepository = (*JobRepository)(nil)
