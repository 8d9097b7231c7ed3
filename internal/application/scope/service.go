package scope

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Filters narrows a scoped listing beyond the access predicate.
type Filters struct {
	Search string
	// CompanyID narrows a platform admin's unrestricted view to one
	// company. Ignored for every other capability; their predicate already
	// pins the company.
	CompanyID *domain.CompanyID
	// Stage narrows application listings.
	Stage *domain.Stage
}

// Page is the requested window and ordering.
type Page struct {
	Limit  int
	Offset int
	Sort   string
	Asc    bool
}

// Service turns a capability set into scoped, searched, paged listings.
// Which rows are reachable depends only on the capability set; paging moves
// the window, never the set.
type Service struct {
	repo ports.ListingRepository
}

func NewService(repo ports.ListingRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) query(kind ports.EntityKind, caps domain.CapabilitySet, f Filters, p Page) (ports.ListQuery, bool) {
	pred, ok := accessPredicate(kind, caps)
	if !ok {
		return ports.ListQuery{}, false
	}
	if caps.PlatformAdmin && f.CompanyID != nil {
		pred = pred.And(adminCompanyFilter(kind, *f.CompanyID))
	}
	pred = pred.And(searchPredicate(kind, f.Search))
	if kind == ports.EntityApplications && f.Stage != nil {
		pred = pred.And(ports.Predicate{Expr: "stage = ?", Args: []any{string(*f.Stage)}})
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return ports.ListQuery{
		Predicate: pred,
		OrderBy:   sortColumn(p.Sort),
		Desc:      !p.Asc,
		Limit:     limit,
		Offset:    offset,
	}, true
}

// adminCompanyFilter maps the explicit org filter onto the entity's company
// linkage. Companies filter on their own id; jobs and placements carry the
// column; candidates and applications reach it through jobs.
func adminCompanyFilter(kind ports.EntityKind, companyID domain.CompanyID) ports.Predicate {
	switch kind {
	case ports.EntityCompanies:
		return ports.Predicate{Expr: "id = ?", Args: []any{companyID.UUID}}
	case ports.EntityJobs, ports.EntityPlacements:
		return ports.Predicate{Expr: "company_id = ?", Args: []any{companyID.UUID}}
	case ports.EntityApplications:
		return ports.Predicate{Expr: "job_id IN (SELECT id FROM jobs WHERE company_id = ?)", Args: []any{companyID.UUID}}
	case ports.EntityCandidates:
		return ports.Predicate{
			Expr: "id IN (SELECT candidate_id FROM applications WHERE job_id IN (SELECT id FROM jobs WHERE company_id = ?))",
			Args: []any{companyID.UUID},
		}
	}
	return ports.Predicate{}
}

// ListJobs returns the jobs the caller may see.
func (s *Service) ListJobs(ctx context.Context, caps domain.CapabilitySet, f Filters, p Page) ([]domain.Job, int, error) {
	q, ok := s.query(ports.EntityJobs, caps, f, p)
	if !ok {
		return nil, 0, nil
	}
	return s.repo.ListJobs(ctx, q)
}

// ListCandidates returns the candidates the caller may see. For recruiters
// that is exactly the set they hold an active protection window on.
// Company callers get each row masked until one of that candidate's
// applications to their jobs has been accepted, the same rule the
// single-candidate read applies.
func (s *Service) ListCandidates(ctx context.Context, caps domain.CapabilitySet, f Filters, p Page) ([]domain.Candidate, int, error) {
	q, ok := s.query(ports.EntityCandidates, caps, f, p)
	if !ok {
		return nil, 0, nil
	}
	rows, total, err := s.repo.ListCandidates(ctx, q)
	if err != nil || len(rows) == 0 {
		return rows, total, err
	}
	// Capability priority mirrors accessPredicate: only a caller whose
	// listing was company-scoped needs the per-row accepted check. Admins
	// and sourcing recruiters see full records; candidates list only
	// themselves.
	if caps.PlatformAdmin || caps.IsRecruiter() {
		return rows, total, nil
	}
	m := caps.FirstQualifyingMembership()
	if m == nil {
		return rows, total, nil
	}
	ids := make([]domain.CandidateID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	accepted, err := s.repo.AcceptedCandidateIDs(ctx, m.CompanyID, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i] = domain.MaskPII(rows[i], accepted[rows[i].ID])
	}
	return rows, total, nil
}

// ListApplications returns the applications the caller may see.
func (s *Service) ListApplications(ctx context.Context, caps domain.CapabilitySet, f Filters, p Page) ([]domain.Application, int, error) {
	q, ok := s.query(ports.EntityApplications, caps, f, p)
	if !ok {
		return nil, 0, nil
	}
	return s.repo.ListApplications(ctx, q)
}

// ListPlacements returns the placements the caller may see.
func (s *Service) ListPlacements(ctx context.Context, caps domain.CapabilitySet, f Filters, p Page) ([]domain.Placement, int, error) {
	q, ok := s.query(ports.EntityPlacements, caps, f, p)
	if !ok {
		return nil, 0, nil
	}
	return s.repo.ListPlacements(ctx, q)
}

// ListCompanies returns the companies the caller may see.
func (s *Service) ListCompanies(ctx context.Context, caps domain.CapabilitySet, f Filters, p Page) ([]domain.Company, int, error) {
	q, ok := s.query(ports.EntityCompanies, caps, f, p)
	if !ok {
		return nil, 0, nil
	}
	return s.repo.ListCompanies(ctx, q)
}
