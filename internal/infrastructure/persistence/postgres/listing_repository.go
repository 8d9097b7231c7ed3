package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// ListingRepository runs scoped list queries. The count query and the data
// query are rendered from the same predicate value, so the total can never
// disagree with the page's WHERE clause.
type ListingRepository struct {
	db Queryer
}

func NewListingRepository(db Queryer) *ListingRepository {
	return &ListingRepository{db: db}
}

const (
	jobColumns         = `id, company_id, title, description, location, salary_min, salary_max, fee_percentage, status, created_at, updated_at`
	candidateColumns   = `id, first_name, last_name, email, phone, linkedin_url, resume_url, location, headline, created_at, updated_at`
	applicationColumns = `id, job_id, candidate_id, recruiter_id, stage, notes, accepted_by_company, accepted_at, action_due_date, created_at, updated_at`
	companyColumns     = `id, name, website, created_at, updated_at`
)

// bindPlaceholders rewrites `?` markers into $1..$n positional parameters.
// Predicates never carry literal question marks outside placeholders.
func bindPlaceholders(expr string, start int) string {
	var b strings.Builder
	n := start
	for _, ch := range expr {
		if ch == '?' {
			b.WriteString("$" + strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func renderListSQL(table, columns string, q ports.ListQuery) (dataSQL, countSQL string, dataArgs, countArgs []any) {
	where := ""
	if q.Predicate.Expr != "" {
		where = " WHERE " + bindPlaceholders(q.Predicate.Expr, 1)
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	n := len(q.Predicate.Args)
	dataSQL = "SELECT " + columns + " FROM " + table + where +
		" ORDER BY " + q.OrderBy + " " + dir +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	countSQL = "SELECT COUNT(*) FROM " + table + where
	dataArgs = append(append([]any{}, q.Predicate.Args...), q.Limit, q.Offset)
	countArgs = q.Predicate.Args
	return dataSQL, countSQL, dataArgs, countArgs
}

func (r *ListingRepository) count(ctx context.Context, sql string, args []any) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ListingRepository) ListJobs(ctx context.Context, q ports.ListQuery) ([]domain.Job, int, error) {
	dataSQL, countSQL, dataArgs, countArgs := renderListSQL("jobs", jobColumns, q)
	total, err := r.count(ctx, countSQL, countArgs)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *j)
	}
	return out, total, rows.Err()
}

func (r *ListingRepository) ListCandidates(ctx context.Context, q ports.ListQuery) ([]domain.Candidate, int, error) {
	dataSQL, countSQL, dataArgs, countArgs := renderListSQL("candidates", candidateColumns, q)
	total, err := r.count(ctx, countSQL, countArgs)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *ListingRepository) ListApplications(ctx context.Context, q ports.ListQuery) ([]domain.Application, int, error) {
	dataSQL, countSQL, dataArgs, countArgs := renderListSQL("applications", applicationColumns, q)
	total, err := r.count(ctx, countSQL, countArgs)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *app)
	}
	return out, total, rows.Err()
}

func (r *ListingRepository) ListPlacements(ctx context.Context, q ports.ListQuery) ([]domain.Placement, int, error) {
	dataSQL, countSQL, dataArgs, countArgs := renderListSQL("placements", placementColumns, q)
	total, err := r.count(ctx, countSQL, countArgs)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Placement
	for rows.Next() {
		p, err := scanPlacementRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *ListingRepository) ListCompanies(ctx context.Context, q ports.ListQuery) ([]domain.Company, int, error) {
	dataSQL, countSQL, dataArgs, countArgs := renderListSQL("companies", companyColumns, q)
	total, err := r.count(ctx, countSQL, countArgs)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		var (
			c  domain.Company
			id domain.CompanyID
		)
		if err := rows.Scan(&id.UUID, &c.Name, &c.Website, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		c.ID = id
		out = append(out, c)
	}
	return out, total, rows.Err()
}

const acceptedCandidateIDsSQL = `SELECT DISTINCT a.candidate_id
FROM applications a
JOIN jobs j ON j.id = a.job_id
WHERE j.company_id = $1 AND a.accepted_by_company AND a.candidate_id = ANY($2::uuid[])`

func (r *ListingRepository) AcceptedCandidateIDs(ctx context.Context, companyID domain.CompanyID, ids []domain.CandidateID) (map[domain.CandidateID]bool, error) {
	if len(ids) == 0 {
		return map[domain.CandidateID]bool{}, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	rows, err := r.db.Query(ctx, acceptedCandidateIDsSQL, companyID.UUID, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accepted := make(map[domain.CandidateID]bool, len(ids))
	for rows.Next() {
		var id domain.CandidateID
		if err := rows.Scan(&id.UUID); err != nil {
			return nil, err
		}
		accepted[id] = true
	}
	return accepted, rows.Err()
}

// scanPlacementRow scans without the ErrNoRows translation scanPlacement
// applies; inside a rows loop a scan error is always a real error.
func scanPlacementRow(row pgx.Row) (*domain.Placement, error) {
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

var _ ports.ListingRepository = (*ListingRepository)(nil)
