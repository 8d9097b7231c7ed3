package domain

import (
	"strings"
	"time"
)

// Candidate is a candidate profile. PII fields (name, email, phone, links)
// are masked for company callers until one of the candidate's applications
// to that company has been accepted; masking is a view-time function
// (MaskPII), never a storage-level redaction.
type Candidate struct {
	ID          CandidateID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	LinkedinURL string
	ResumeURL   string
	Location    string
	Headline    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MaskedEmailPlaceholder is returned instead of the candidate's address
// until the owning company accepts an application.
const MaskedEmailPlaceholder = "hidden@protected.invalid"

// MaskPII returns a copy of the candidate with name reduced to initials and
// contact fields replaced by placeholders. The accepted flag comes from the
// application row, so the same candidate looks different per caller.
func MaskPII(c Candidate, accepted bool) Candidate {
	if accepted {
		return c
	}
	masked := c
	masked.FirstName = initial(c.FirstName)
	masked.LastName = initial(c.LastName)
	masked.Email = MaskedEmailPlaceholder
	masked.Phone = ""
	masked.LinkedinURL = ""
	masked.ResumeURL = ""
	return masked
}

func initial(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(trimmed[:1]) + "."
}
