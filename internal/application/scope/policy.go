package scope

import (
	"strings"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
)

// capabilityKind is the capability chosen to drive a listing's WHERE
// clause. Declaration order is the priority order: a caller who is both a
// recruiter and a company admin gets the recruiter view for listings, never
// the union. Single-entity permission checks still consult every held
// capability, so this only shapes list output.
type capabilityKind int

const (
	capAdmin capabilityKind = iota
	capRecruiter
	capCompany
	capCandidate
)

// predicateFunc builds the access predicate for one (entity, capability)
// pair. Predicates use `?` placeholders; the listing repository rewrites
// them to pgx positional arguments.
type predicateFunc func(caps domain.CapabilitySet) ports.Predicate

// unrestricted matches every row (platform admin).
func unrestricted(domain.CapabilitySet) ports.Predicate { return ports.Predicate{} }

// policies is the one place the role-scoping rules live. Every listing goes
// through this table; there is no per-endpoint re-derivation.
var policies = map[ports.EntityKind]map[capabilityKind]predicateFunc{
	ports.EntityJobs: {
		capAdmin: unrestricted,
		capRecruiter: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{
				Expr: "id IN (SELECT job_id FROM applications WHERE recruiter_id = ?)",
				Args: []any{caps.RecruiterID.UUID},
			}
		},
		capCompany: companyColumn("company_id"),
		capCandidate: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{
				Expr: "id IN (SELECT job_id FROM applications WHERE candidate_id = ?)",
				Args: []any{caps.CandidateID.UUID},
			}
		},
	},
	ports.EntityCandidates: {
		capAdmin: unrestricted,
		capRecruiter: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{
				Expr: "id IN (SELECT candidate_id FROM candidate_sourcers WHERE sourcer_actor_id = ? AND protection_expires_at > NOW())",
				Args: []any{caps.RecruiterID.String()},
			}
		},
		capCompany: func(caps domain.CapabilitySet) ports.Predicate {
			m := caps.FirstQualifyingMembership()
			return ports.Predicate{
				Expr: "id IN (SELECT candidate_id FROM applications WHERE job_id IN (SELECT id FROM jobs WHERE company_id = ?))",
				Args: []any{m.CompanyID.UUID},
			}
		},
		capCandidate: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{Expr: "id = ?", Args: []any{caps.CandidateID.UUID}}
		},
	},
	ports.EntityApplications: {
		capAdmin: unrestricted,
		capRecruiter: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{Expr: "recruiter_id = ?", Args: []any{caps.RecruiterID.UUID}}
		},
		capCompany: func(caps domain.CapabilitySet) ports.Predicate {
			m := caps.FirstQualifyingMembership()
			return ports.Predicate{
				Expr: "job_id IN (SELECT id FROM jobs WHERE company_id = ?)",
				Args: []any{m.CompanyID.UUID},
			}
		},
		capCandidate: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{Expr: "candidate_id = ?", Args: []any{caps.CandidateID.UUID}}
		},
	},
	ports.EntityPlacements: {
		capAdmin: unrestricted,
		capRecruiter: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{
				Expr: "(recruiter_id = ? OR id IN (SELECT placement_id FROM placement_collaborators WHERE recruiter_actor_id = ?))",
				Args: []any{caps.RecruiterID.UUID, caps.RecruiterID.String()},
			}
		},
		capCompany: companyColumn("company_id"),
		capCandidate: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{Expr: "candidate_id = ?", Args: []any{caps.CandidateID.UUID}}
		},
	},
	ports.EntityCompanies: {
		capAdmin: unrestricted,
		capRecruiter: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{
				Expr: "id IN (SELECT company_id FROM jobs WHERE id IN (SELECT job_id FROM applications WHERE recruiter_id = ?))",
				Args: []any{caps.RecruiterID.UUID},
			}
		},
		capCompany: companyColumn("id"),
		capCandidate: func(caps domain.CapabilitySet) ports.Predicate {
			return ports.Predicate{
				Expr: "id IN (SELECT company_id FROM jobs WHERE id IN (SELECT job_id FROM applications WHERE candidate_id = ?))",
				Args: []any{caps.CandidateID.UUID},
			}
		},
	},
}

func companyColumn(column string) predicateFunc {
	return func(caps domain.CapabilitySet) ports.Predicate {
		m := caps.FirstQualifyingMembership()
		return ports.Predicate{Expr: column + " = ?", Args: []any{m.CompanyID.UUID}}
	}
}

// searchColumns whitelists the text columns substring search may touch per
// entity. Entities absent from the map ignore the search filter. Candidate
// email stays out: a substring probe against it would confirm an exact
// address to callers who only ever see the masked value.
var searchColumns = map[ports.EntityKind][]string{
	ports.EntityJobs:       {"title", "description", "location"},
	ports.EntityCandidates: {"first_name", "last_name", "headline"},
	ports.EntityCompanies:  {"name", "website"},
}

// sortColumnWhitelist guards ORDER BY injection; anything else falls back
// to created_at.
var sortColumnWhitelist = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// accessPredicate picks the highest-priority capability the caller holds
// for the entity kind and returns its predicate. ok is false when the
// caller holds nothing applicable; listings then return an empty page so an
// unauthorized caller cannot tell "no data" from "no access".
func accessPredicate(kind ports.EntityKind, caps domain.CapabilitySet) (ports.Predicate, bool) {
	table := policies[kind]
	if table == nil {
		return ports.Predicate{}, false
	}
	switch {
	case caps.PlatformAdmin:
		return table[capAdmin](caps), true
	case caps.IsRecruiter():
		return table[capRecruiter](caps), true
	case caps.FirstQualifyingMembership() != nil:
		return table[capCompany](caps), true
	case caps.IsCandidate():
		return table[capCandidate](caps), true
	}
	return ports.Predicate{}, false
}

// searchPredicate folds a case-insensitive substring search over the
// entity's whitelisted columns into a predicate. Empty search or an entity
// with no searchable columns yields an empty predicate.
func searchPredicate(kind ports.EntityKind, search string) ports.Predicate {
	search = strings.TrimSpace(search)
	cols := searchColumns[kind]
	if search == "" || len(cols) == 0 {
		return ports.Predicate{}
	}
	needle := "%" + strings.ToLower(search) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = needle
	}
	return ports.Predicate{Expr: strings.Join(parts, " OR "), Args: args}
}

func sortColumn(requested string) string {
	if sortColumnWhitelist[requested] {
		return requested
	}
	return "created_at"
}
