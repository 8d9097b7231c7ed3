package sourcing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type fakeCandidateRepo struct {
	candidates map[domain.CandidateID]*domain.Candidate
	applied    map[domain.CompanyID]bool
	accepted   map[domain.CompanyID]bool
}

func (r *fakeCandidateRepo) GetByID(_ context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCandidateRepo) HasApplicationWithCompany(_ context.Context, _ domain.CandidateID, companyID domain.CompanyID) (bool, error) {
	return r.applied[companyID], nil
}

func (r *fakeCandidateRepo) HasAcceptedApplicationWithCompany(_ context.Context, _ domain.CandidateID, companyID domain.CompanyID) (bool, error) {
	return r.accepted[companyID], nil
}

func TestGetCandidateMaskingPerCaller(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	candID := domain.NewCandidateID(uuid.New())
	companyID := domain.NewCompanyID(uuid.New())
	recID := domain.NewRecruiterID(uuid.New())

	candidates := &fakeCandidateRepo{
		candidates: map[domain.CandidateID]*domain.Candidate{candID: {
			ID:        candID,
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		}},
		applied:  map[domain.CompanyID]bool{companyID: true},
		accepted: map[domain.CompanyID]bool{},
	}
	sourcers := &fakeSourcerRepo{}
	clock := stubClock{now}
	establish := NewEstablishOwnership(sourcers, &recordingPublisher{}, clock)
	if _, err := establish.Execute(context.Background(), EstablishOwnershipInput{CandidateID: candID, SourcerID: domain.ActorID(recID.String()), SourcerType: domain.SourcerTypeRecruiter}); err != nil {
		t.Fatal(err)
	}

	uc := NewGetCandidate(candidates, sourcers, clock)
	companyCaps := domain.CapabilitySet{Memberships: []domain.CompanyMembership{{CompanyID: companyID, Role: domain.RoleCompanyAdmin}}}

	got, err := uc.Execute(context.Background(), candID, companyCaps)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != domain.MaskedEmailPlaceholder || got.FirstName != "J." {
		t.Errorf("pre-acceptance view should be masked, got %+v", got)
	}

	candidates.accepted[companyID] = true
	got, err = uc.Execute(context.Background(), candID, companyCaps)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "jane@example.com" {
		t.Error("acceptance should unmask the candidate for the owning company")
	}

	got, err = uc.Execute(context.Background(), candID, domain.CapabilitySet{RecruiterID: &recID})
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "jane@example.com" {
		t.Error("the sourcing recruiter always sees the full record")
	}

	selfCaps := domain.CapabilitySet{CandidateID: &candID}
	if got, err = uc.Execute(context.Background(), candID, selfCaps); err != nil || got.Email != "jane@example.com" {
		t.Errorf("candidate self-view: %+v err=%v", got, err)
	}
}

func TestGetCandidateForbiddenAndNotFound(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	candID := domain.NewCandidateID(uuid.New())
	candidates := &fakeCandidateRepo{
		candidates: map[domain.CandidateID]*domain.Candidate{candID: {ID: candID, FirstName: "Jane"}},
		applied:    map[domain.CompanyID]bool{},
		accepted:   map[domain.CompanyID]bool{},
	}
	uc := NewGetCandidate(candidates, &fakeSourcerRepo{}, stubClock{now})

	otherRec := domain.NewRecruiterID(uuid.New())
	if _, err := uc.Execute(context.Background(), candID, domain.CapabilitySet{RecruiterID: &otherRec}); !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("non-sourcing recruiter: got %v, want ErrForbidden", err)
	}

	unrelated := domain.NewCompanyID(uuid.New())
	caps := domain.CapabilitySet{Memberships: []domain.CompanyMembership{{CompanyID: unrelated, Role: domain.RoleCompanyAdmin}}}
	if _, err := uc.Execute(context.Background(), candID, caps); !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("company without applications: got %v, want ErrForbidden", err)
	}

	if _, err := uc.Execute(context.Background(), domain.NewCandidateID(uuid.New()), domain.CapabilitySet{PlatformAdmin: true}); !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("missing candidate: got %v, want ErrNotFound", err)
	}
}
