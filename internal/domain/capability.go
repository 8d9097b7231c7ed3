package domain

// Company roles that grant access to company-scoped rows. Other membership
// roles (e.g. billing, viewer) do not scope listings.
const (
	RoleCompanyAdmin  = "company_admin"
	RoleHiringManager = "hiring_manager"
)

// CompanyMembership links an actor to a company with a role.
type CompanyMembership struct {
	CompanyID CompanyID
	Role      string
}

// Qualifies reports whether the membership role grants company-scoped access.
func (m CompanyMembership) Qualifies() bool {
	return m.Role == RoleCompanyAdmin || m.Role == RoleHiringManager
}

// CapabilitySet is the union of roles a resolved caller holds for one
// request. It is derived per request, never stored. A caller may hold more
// than one capability at once (recruiter and company admin, say); listing
// scope picks one by priority but single-entity permission checks consult
// all of them.
type CapabilitySet struct {
	PlatformAdmin bool
	RecruiterID   *RecruiterID
	CandidateID   *CandidateID
	Memberships   []CompanyMembership
}

// IsEmpty reports whether the caller holds no capability at all. Empty sets
// are treated as "no access", not as an authentication failure; the gateway
// already authenticated the caller before this core ran.
func (c CapabilitySet) IsEmpty() bool {
	return !c.PlatformAdmin && c.RecruiterID == nil && c.CandidateID == nil && len(c.qualifyingMemberships()) == 0
}

// IsRecruiter reports whether the caller holds the recruiter capability.
func (c CapabilitySet) IsRecruiter() bool { return c.RecruiterID != nil }

// IsCandidate reports whether the caller holds the candidate capability.
func (c CapabilitySet) IsCandidate() bool { return c.CandidateID != nil }

// MembershipFor returns the caller's qualifying membership in the given
// company, or nil.
func (c CapabilitySet) MembershipFor(companyID CompanyID) *CompanyMembership {
	for i := range c.Memberships {
		if c.Memberships[i].CompanyID == companyID && c.Memberships[i].Qualifies() {
			return &c.Memberships[i]
		}
	}
	return nil
}

// FirstQualifyingMembership returns the first company membership with a
// qualifying role, or nil. Listing scope uses it when the caller is not a
// recruiter.
func (c CapabilitySet) FirstQualifyingMembership() *CompanyMembership {
	ms := c.qualifyingMemberships()
	if len(ms) == 0 {
		return nil
	}
	return &ms[0]
}

func (c CapabilitySet) qualifyingMemberships() []CompanyMembership {
	var out []CompanyMembership
	for _, m := range c.Memberships {
		if m.Qualifies() {
			out = append(out, m)
		}
	}
	return out
}

// Recruiter is an identity-directory view of a recruiter record.
type Recruiter struct {
	ID     RecruiterID
	Status string
}

// Active reports whether the recruiter may act on the marketplace.
func (r Recruiter) Active() bool { return r.Status == "active" }
