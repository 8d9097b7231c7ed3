package domain

import "github.com/google/uuid"

// ActorID is the opaque caller token handed to us by the auth gateway.
// The core never interprets it; the identity directory maps it to
// recruiter/candidate/membership records.
type ActorID string

func (a ActorID) String() string { return string(a) }

// RecruiterID is a value object for recruiter identity.
type RecruiterID struct{ uuid.UUID }

// NewRecruiterID creates a RecruiterID from uuid.
func NewRecruiterID(id uuid.UUID) RecruiterID { return RecruiterID{UUID: id} }

// String returns the canonical string form.
func (r RecruiterID) String() string { return r.UUID.String() }

// CandidateID is a value object for candidate identity.
type CandidateID struct{ uuid.UUID }

// NewCandidateID creates a CandidateID from uuid.
func NewCandidateID(id uuid.UUID) CandidateID { return CandidateID{UUID: id} }

// String returns the canonical string form.
func (c CandidateID) String() string { return c.UUID.String() }

// CompanyID is a value object for company (organization) identity.
type CompanyID struct{ uuid.UUID }

// NewCompanyID creates a CompanyID from uuid.
func NewCompanyID(id uuid.UUID) CompanyID { return CompanyID{UUID: id} }

// String returns the canonical string form.
func (c CompanyID) String() string { return c.UUID.String() }

// JobID is a value object for job identity.
type JobID struct{ uuid.UUID }

// NewJobID creates a JobID from uuid.
func NewJobID(id uuid.UUID) JobID { return JobID{UUID: id} }

// String returns the canonical string form.
func (j JobID) String() string { return j.UUID.String() }

// ApplicationID is a value object for application identity.
type ApplicationID struct{ uuid.UUID }

// NewApplicationID creates an ApplicationID from uuid.
func NewApplicationID(id uuid.UUID) ApplicationID { return ApplicationID{UUID: id} }

// String returns the canonical string form.
func (a ApplicationID) String() string { return a.UUID.String() }

// PlacementID is a value object for placement identity.
type PlacementID struct{ uuid.UUID }

// NewPlacementID creates a PlacementID from uuid.
func NewPlacementID(id uuid.UUID) PlacementID { return PlacementID{UUID: id} }

// String returns the canonical string form.
func (p PlacementID) String() string { return p.UUID.String() }

// OutreachID is a value object for outreach record identity.
type OutreachID struct{ uuid.UUID }

// NewOutreachID creates an OutreachID from uuid.
func NewOutreachID(id uuid.UUID) OutreachID { return OutreachID{UUID: id} }

// String returns the canonical string form.
func (o OutreachID) String() string { return o.UUID.String() }
