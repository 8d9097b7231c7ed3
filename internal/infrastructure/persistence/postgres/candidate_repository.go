package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// CandidateRepository reads candidate profiles. Masking happens in the
// application layer; rows always come back with full PII.
type CandidateRepository struct {
	db Queryer
}

func NewCandidateRepository(db Queryer) *CandidateRepository {
	return &CandidateRepository{db: db}
}

const (
	getCandidateSQL = `SELECT id, first_name, last_name, email, phone, linkedin_url, resume_url, location, headline, created_at, updated_at
FROM candidates WHERE id = $1`
	hasApplicationWithCompanySQL = `SELECT EXISTS(
SELECT 1 FROM applications a JOIN jobs j ON j.id = a.job_id
WHERE a.candidate_id = $1 AND j.company_id = $2)`
	hasAcceptedApplicationWithCompanySQL = `SELECT EXISTS(
SELECT 1 FROM applications a JOIN jobs j ON j.id = a.job_id
WHERE a.candidate_id = $1 AND j.company_id = $2 AND a.accepted_by_company)`
)

func (r *CandidateRepository) GetByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	row := r.db.QueryRow(ctx, getCandidateSQL, id.UUID)
	c, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CandidateRepository) HasApplicationWithCompany(ctx context.Context, candidateID domain.CandidateID, companyID domain.CompanyID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, hasApplicationWithCompanySQL, candidateID.UUID, companyID.UUID).Scan(&exists)
	return exists, err
}

func (r *CandidateRepository) HasAcceptedApplicationWithCompany(ctx context.Context, candidateID domain.CandidateID, companyID domain.CompanyID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, hasAcceptedApplicationWithCompanySQL, candidateID.UUID, companyID.UUID).Scan(&exists)
	return exists, err
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		c  domain.Candidate
		id domain.CandidateID
	)
	err := row.Scan(&id.UUID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.LinkedinURL, &c.ResumeURL, &c.Location, &c.Headline, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

var _ ports.CandidateRepository = (*CandidateRepository)(nil)
