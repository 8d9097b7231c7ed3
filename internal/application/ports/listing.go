package ports

import (
	"context"

	"github.com/splits-network/splits-sub003/internal/domain"
)

// EntityKind names a listable entity.
type EntityKind string

const (
	EntityJobs         EntityKind = "jobs"
	EntityCandidates   EntityKind = "candidates"
	EntityApplications EntityKind = "applications"
	EntityPlacements   EntityKind = "placements"
	EntityCompanies    EntityKind = "companies"
)

// Predicate is a WHERE fragment with `?` placeholders and its arguments.
// The scope policy builds exactly one Predicate per listing; the repository
// runs both the data query and the count query from that same value, so the
// two cannot drift apart.
type Predicate struct {
	Expr string
	Args []any
}

// And returns a predicate combining p and other with AND. Empty operands
// drop out.
func (p Predicate) And(other Predicate) Predicate {
	switch {
	case p.Expr == "":
		return other
	case other.Expr == "":
		return p
	}
	return Predicate{
		Expr: "(" + p.Expr + ") AND (" + other.Expr + ")",
		Args: append(append([]any{}, p.Args...), other.Args...),
	}
}

// ListQuery carries one scoped listing: the access predicate (search
// already folded in), a sort column validated by the policy layer, and the
// paging window.
type ListQuery struct {
	Predicate Predicate
	OrderBy   string
	Desc      bool
	Limit     int
	Offset    int
}

// ListingRepository runs scoped list queries. Each method returns the page
// of rows plus the total count under the same predicate.
type ListingRepository interface {
	ListJobs(ctx context.Context, q ListQuery) ([]domain.Job, int, error)
	ListCandidates(ctx context.Context, q ListQuery) ([]domain.Candidate, int, error)
	ListApplications(ctx context.Context, q ListQuery) ([]domain.Application, int, error)
	ListPlacements(ctx context.Context, q ListQuery) ([]domain.Placement, int, error)
	ListCompanies(ctx context.Context, q ListQuery) ([]domain.Company, int, error)
	// AcceptedCandidateIDs reports which of the given candidates have an
	// application with the company that the company accepted. The scope
	// layer uses it to decide PII masking per row on company-scoped
	// candidate listings.
	AcceptedCandidateIDs(ctx context.Context, companyID domain.CompanyID, ids []domain.CandidateID) (map[domain.CandidateID]bool, error)
}
