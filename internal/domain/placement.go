package domain

import (
	"math"
	"time"
)

// DefaultPlatformSharePct is the platform's cut of the placement fee when
// the company contract does not override it.
const DefaultPlatformSharePct = 25.0

// Placement records a successful hire. Created exactly once per
// application, from an accept-eligible state; immutable afterwards except
// through the collaboration flow.
type Placement struct {
	ID             PlacementID
	ApplicationID  ApplicationID
	JobID          JobID
	CandidateID    CandidateID
	CompanyID      CompanyID
	RecruiterID    RecruiterID
	Salary         float64
	FeePercentage  float64
	FeeAmount      float64
	RecruiterShare float64
	PlatformShare  float64
	HiredAt        time.Time
}

// Collaborator roles and their default split weights.
const (
	CollaboratorSourcer   = "sourcer"
	CollaboratorSubmitter = "submitter"
	CollaboratorCloser    = "closer"
	CollaboratorSupport   = "support"
)

var defaultSplitWeights = map[string]float64{
	CollaboratorSourcer:   40,
	CollaboratorSubmitter: 30,
	CollaboratorCloser:    20,
	CollaboratorSupport:   10,
}

// ValidCollaboratorRole reports whether role is one of the known roles.
func ValidCollaboratorRole(role string) bool {
	_, ok := defaultSplitWeights[role]
	return ok
}

// PlacementCollaborator is one recruiter's share of a placement fee.
// The sum of SplitPercentage across a placement's collaborators never
// exceeds 100; the repository re-sums existing rows inside the insert
// transaction to hold that under concurrency.
type PlacementCollaborator struct {
	ID               string
	PlacementID      PlacementID
	RecruiterActorID ActorID
	Role             string
	SplitPercentage  float64
	SplitAmount      float64
	Notes            string
	CreatedAt        time.Time
}

// SplitRole names a collaborator role in a split calculation. A zero Weight
// means "use the default weight for that role".
type SplitRole struct {
	Role   string
	Weight float64
}

// SplitRecommendation is one row of the advisory split calculation.
type SplitRecommendation struct {
	Role            string
	SplitPercentage float64
	SplitAmount     float64
}

// CalculateSplits produces an advisory fee split over the given roles.
// Percentages are weight/sum*100 and amounts are totalShare*weight/sum,
// both rounded to cents. Actual collaborator rows are written separately
// and are not required to match the recommendation.
func CalculateSplits(totalShare float64, roles []SplitRole) []SplitRecommendation {
	if len(roles) == 0 {
		return nil
	}
	weights := make([]float64, len(roles))
	var sum float64
	for i, r := range roles {
		w := r.Weight
		if w <= 0 {
			w = defaultSplitWeights[r.Role]
		}
		weights[i] = w
		sum += w
	}
	if sum <= 0 {
		return nil
	}
	out := make([]SplitRecommendation, len(roles))
	for i, r := range roles {
		out[i] = SplitRecommendation{
			Role:            r.Role,
			SplitPercentage: round2(weights[i] / sum * 100),
			SplitAmount:     round2(totalShare * weights[i] / sum),
		}
	}
	return out
}

// PlacementFees computes fee amount and recruiter/platform shares for a
// salary and fee percentage, rounded to cents.
func PlacementFees(salary, feePct, platformSharePct float64) (feeAmount, recruiterShare, platformShare float64) {
	feeAmount = round2(salary * feePct / 100)
	platformShare = round2(feeAmount * platformSharePct / 100)
	recruiterShare = round2(feeAmount - platformShare)
	return feeAmount, recruiterShare, platformShare
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
