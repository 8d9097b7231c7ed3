package scope

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// captureRepo records the query it was handed so tests can inspect the
// predicate the policy layer built. Candidate rows and the accepted set can
// be seeded to exercise the listing-side masking.
type captureRepo struct {
	last   *ports.ListQuery
	called int

	candidates    []domain.Candidate
	accepted      map[domain.CandidateID]bool
	acceptedCalls int
}

func (r *captureRepo) capture(q ports.ListQuery) {
	r.called++
	qq := q
	r.last = &qq
}

func (r *captureRepo) ListJobs(_ context.Context, q ports.ListQuery) ([]domain.Job, int, error) {
	r.capture(q)
	return nil, 0, nil
}

func (r *captureRepo) ListCandidates(_ context.Context, q ports.ListQuery) ([]domain.Candidate, int, error) {
	r.capture(q)
	out := append([]domain.Candidate{}, r.candidates...)
	return out, len(out), nil
}

func (r *captureRepo) AcceptedCandidateIDs(_ context.Context, _ domain.CompanyID, _ []domain.CandidateID) (map[domain.CandidateID]bool, error) {
	r.acceptedCalls++
	if r.accepted == nil {
		return map[domain.CandidateID]bool{}, nil
	}
	return r.accepted, nil
}

func (r *captureRepo) ListApplications(_ context.Context, q ports.ListQuery) ([]domain.Application, int, error) {
	r.capture(q)
	return nil, 0, nil
}

func (r *captureRepo) ListPlacements(_ context.Context, q ports.ListQuery) ([]domain.Placement, int, error) {
	r.capture(q)
	return nil, 0, nil
}

func (r *captureRepo) ListCompanies(_ context.Context, q ports.ListQuery) ([]domain.Company, int, error) {
	r.capture(q)
	return nil, 0, nil
}

func TestNoCapabilityReturnsEmptyWithoutQuerying(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	rows, total, err := s.ListApplications(context.Background(), domain.CapabilitySet{}, Filters{}, Page{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != nil || total != 0 {
		t.Errorf("no-capability listing must look like an empty result, got %v rows total=%d", rows, total)
	}
	if repo.called != 0 {
		t.Error("the store must not be queried for a caller with no capability")
	}
}

func TestRecruiterScopesCandidatesToActiveSourcerRows(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	recID := domain.NewRecruiterID(uuid.New())
	caps := domain.CapabilitySet{RecruiterID: &recID}

	if _, _, err := s.ListCandidates(context.Background(), caps, Filters{}, Page{}); err != nil {
		t.Fatal(err)
	}
	q := repo.last
	if q == nil {
		t.Fatal("repo not called")
	}
	if !strings.Contains(q.Predicate.Expr, "candidate_sourcers") {
		t.Errorf("recruiter candidate scope should go through sourcer rows, got %q", q.Predicate.Expr)
	}
	if len(q.Predicate.Args) != 1 || q.Predicate.Args[0] != recID.String() {
		t.Errorf("predicate args = %v", q.Predicate.Args)
	}
}

func TestRecruiterPriorityOverCompanyMembership(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	recID := domain.NewRecruiterID(uuid.New())
	companyID := domain.NewCompanyID(uuid.New())
	caps := domain.CapabilitySet{
		RecruiterID: &recID,
		Memberships: []domain.CompanyMembership{{CompanyID: companyID, Role: domain.RoleCompanyAdmin}},
	}

	if _, _, err := s.ListApplications(context.Background(), caps, Filters{}, Page{}); err != nil {
		t.Fatal(err)
	}
	q := repo.last
	if !strings.Contains(q.Predicate.Expr, "recruiter_id = ?") {
		t.Errorf("dual-role caller must get the recruiter view, got %q", q.Predicate.Expr)
	}
	if strings.Contains(q.Predicate.Expr, "company_id") {
		t.Errorf("company scope must not leak into a recruiter listing: %q", q.Predicate.Expr)
	}
}

func TestCompanyMemberScopesApplicationsToOwnJobs(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	companyID := domain.NewCompanyID(uuid.New())
	caps := domain.CapabilitySet{Memberships: []domain.CompanyMembership{{CompanyID: companyID, Role: domain.RoleHiringManager}}}

	if _, _, err := s.ListApplications(context.Background(), caps, Filters{}, Page{}); err != nil {
		t.Fatal(err)
	}
	q := repo.last
	if !strings.Contains(q.Predicate.Expr, "company_id = ?") {
		t.Errorf("predicate = %q", q.Predicate.Expr)
	}
	if q.Predicate.Args[0] != companyID.UUID {
		t.Errorf("predicate args = %v", q.Predicate.Args)
	}
}

func TestCompanyCandidateListingMasksUntilAccepted(t *testing.T) {
	pending := domain.Candidate{
		ID:          domain.NewCandidateID(uuid.New()),
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "+1-555-0100",
		LinkedinURL: "https://linkedin.com/in/ada",
	}
	hired := domain.Candidate{
		ID:        domain.NewCandidateID(uuid.New()),
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
	}
	repo := &captureRepo{
		candidates: []domain.Candidate{pending, hired},
		accepted:   map[domain.CandidateID]bool{hired.ID: true},
	}
	s := NewService(repo)
	companyID := domain.NewCompanyID(uuid.New())
	caps := domain.CapabilitySet{Memberships: []domain.CompanyMembership{{CompanyID: companyID, Role: domain.RoleCompanyAdmin}}}

	rows, total, err := s.ListCandidates(context.Background(), caps, Filters{}, Page{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("rows=%d total=%d", len(rows), total)
	}
	if rows[0].Email != domain.MaskedEmailPlaceholder || rows[0].FirstName != "A." || rows[0].Phone != "" || rows[0].LinkedinURL != "" {
		t.Errorf("pre-acceptance row must be masked, got %+v", rows[0])
	}
	if rows[1].Email != "grace@example.com" || rows[1].FirstName != "Grace" {
		t.Errorf("accepted row must keep full PII, got %+v", rows[1])
	}
}

func TestRecruiterCandidateListingStaysUnmasked(t *testing.T) {
	mine := domain.Candidate{
		ID:        domain.NewCandidateID(uuid.New()),
		FirstName: "Ada",
		Email:     "ada@example.com",
	}
	repo := &captureRepo{candidates: []domain.Candidate{mine}}
	s := NewService(repo)
	recID := domain.NewRecruiterID(uuid.New())
	caps := domain.CapabilitySet{RecruiterID: &recID}

	rows, _, err := s.ListCandidates(context.Background(), caps, Filters{}, Page{})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Email != "ada@example.com" {
		t.Errorf("sourcing recruiter sees the full record, got %+v", rows[0])
	}
	if repo.acceptedCalls != 0 {
		t.Error("the accepted check only applies to company-scoped listings")
	}
}

func TestNonQualifyingRoleGetsNoCompanyScope(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	companyID := domain.NewCompanyID(uuid.New())
	caps := domain.CapabilitySet{Memberships: []domain.CompanyMembership{{CompanyID: companyID, Role: "billing"}}}

	rows, total, err := s.ListApplications(context.Background(), caps, Filters{}, Page{})
	if err != nil || rows != nil || total != 0 || repo.called != 0 {
		t.Errorf("billing role should see nothing: rows=%v total=%d called=%d err=%v", rows, total, repo.called, err)
	}
}

func TestAdminUnrestrictedWithOptionalCompanyFilter(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	caps := domain.CapabilitySet{PlatformAdmin: true}

	if _, _, err := s.ListJobs(context.Background(), caps, Filters{}, Page{}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Predicate.Expr != "" {
		t.Errorf("admin without filter should be unrestricted, got %q", repo.last.Predicate.Expr)
	}

	companyID := domain.NewCompanyID(uuid.New())
	if _, _, err := s.ListJobs(context.Background(), caps, Filters{CompanyID: &companyID}, Page{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(repo.last.Predicate.Expr, "company_id = ?") {
		t.Errorf("explicit org filter should narrow the admin view, got %q", repo.last.Predicate.Expr)
	}
}

func TestSearchFoldedIntoPredicate(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	caps := domain.CapabilitySet{PlatformAdmin: true}

	if _, _, err := s.ListCandidates(context.Background(), caps, Filters{Search: "Ada"}, Page{}); err != nil {
		t.Fatal(err)
	}
	q := repo.last
	if !strings.Contains(q.Predicate.Expr, "LOWER(first_name) LIKE ?") {
		t.Errorf("search should expand over whitelisted columns, got %q", q.Predicate.Expr)
	}
	for _, a := range q.Predicate.Args {
		if a != "%ada%" {
			t.Errorf("search args should be lowercased needles, got %v", q.Predicate.Args)
		}
	}
}

func TestCandidateSearchNeverTouchesEmail(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	caps := domain.CapabilitySet{PlatformAdmin: true}

	if _, _, err := s.ListCandidates(context.Background(), caps, Filters{Search: "ada@example.com"}, Page{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(repo.last.Predicate.Expr, "email") {
		t.Errorf("candidate search must not probe the email column, got %q", repo.last.Predicate.Expr)
	}
}

func TestSearchIgnoredForUnsearchableEntity(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	caps := domain.CapabilitySet{PlatformAdmin: true}

	if _, _, err := s.ListPlacements(context.Background(), caps, Filters{Search: "acme"}, Page{}); err != nil {
		t.Fatal(err)
	}
	if repo.last.Predicate.Expr != "" {
		t.Errorf("placements have no searchable columns, got %q", repo.last.Predicate.Expr)
	}
}

func TestPagingDefaultsAndClamps(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	caps := domain.CapabilitySet{PlatformAdmin: true}

	_, _, _ = s.ListJobs(context.Background(), caps, Filters{}, Page{})
	if repo.last.Limit != defaultPageSize || repo.last.Offset != 0 {
		t.Errorf("defaults: limit=%d offset=%d", repo.last.Limit, repo.last.Offset)
	}
	if repo.last.OrderBy != "created_at" || !repo.last.Desc {
		t.Errorf("default sort should be created_at desc, got %s desc=%v", repo.last.OrderBy, repo.last.Desc)
	}

	_, _, _ = s.ListJobs(context.Background(), caps, Filters{}, Page{Limit: 10000, Offset: -5, Sort: "salary; DROP TABLE jobs"})
	if repo.last.Limit != maxPageSize {
		t.Errorf("limit should clamp to %d, got %d", maxPageSize, repo.last.Limit)
	}
	if repo.last.Offset != 0 {
		t.Errorf("negative offset should clamp to 0, got %d", repo.last.Offset)
	}
	if repo.last.OrderBy != "created_at" {
		t.Errorf("non-whitelisted sort must fall back to created_at, got %q", repo.last.OrderBy)
	}
}

func TestPagingNeverChangesPredicate(t *testing.T) {
	repo := &captureRepo{}
	s := NewService(repo)
	recID := domain.NewRecruiterID(uuid.New())
	caps := domain.CapabilitySet{RecruiterID: &recID}

	_, _, _ = s.ListCandidates(context.Background(), caps, Filters{}, Page{Limit: 5, Offset: 0})
	first := *repo.last
	_, _, _ = s.ListCandidates(context.Background(), caps, Filters{}, Page{Limit: 5, Offset: 500})
	second := *repo.last

	if first.Predicate.Expr != second.Predicate.Expr {
		t.Error("paging must only move the window, not the reachable set")
	}
	if len(first.Predicate.Args) != len(second.Predicate.Args) || first.Predicate.Args[0] != second.Predicate.Args[0] {
		t.Error("predicate args must be identical across pages")
	}
}
