package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/domain"
)

type fakeDirectory struct {
	recruiters map[domain.ActorID]*domain.Recruiter
	members    map[domain.ActorID]*domain.CompanyMembership
	candidates map[domain.ActorID]*domain.CandidateID
	admins     map[domain.ActorID]bool
	err        error
}

func (d *fakeDirectory) FindRecruiterByActor(_ context.Context, id domain.ActorID) (*domain.Recruiter, error) {
	return d.recruiters[id], d.err
}

func (d *fakeDirectory) FindMembership(_ context.Context, id domain.ActorID, _ domain.CompanyID) (*domain.CompanyMembership, error) {
	return d.members[id], d.err
}

func (d *fakeDirectory) FindCandidateByActor(_ context.Context, id domain.ActorID) (*domain.CandidateID, error) {
	return d.candidates[id], d.err
}

func (d *fakeDirectory) IsPlatformAdmin(_ context.Context, id domain.ActorID) (bool, error) {
	return d.admins[id], d.err
}

func TestResolveUnknownActorFailsClosed(t *testing.T) {
	r := NewResolver(&fakeDirectory{})
	caps, err := r.Resolve(context.Background(), ResolveInput{ActorID: "stranger"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !caps.IsEmpty() {
		t.Errorf("unknown actor should resolve to an empty set, got %+v", caps)
	}
}

func TestResolveUnionOfCapabilities(t *testing.T) {
	actor := domain.ActorID("actor-1")
	recID := domain.NewRecruiterID(uuid.New())
	companyID := domain.NewCompanyID(uuid.New())
	dir := &fakeDirectory{
		recruiters: map[domain.ActorID]*domain.Recruiter{actor: {ID: recID, Status: "active"}},
		members:    map[domain.ActorID]*domain.CompanyMembership{actor: {CompanyID: companyID, Role: domain.RoleCompanyAdmin}},
	}
	r := NewResolver(dir)
	caps, err := r.Resolve(context.Background(), ResolveInput{ActorID: actor, CompanyID: &companyID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps.RecruiterID == nil || *caps.RecruiterID != recID {
		t.Error("recruiter capability missing")
	}
	if caps.MembershipFor(companyID) == nil {
		t.Error("company membership capability missing")
	}
	if caps.PlatformAdmin || caps.CandidateID != nil {
		t.Errorf("unexpected extra capabilities: %+v", caps)
	}
}

func TestResolveSkipsMembershipWithoutHint(t *testing.T) {
	actor := domain.ActorID("actor-2")
	companyID := domain.NewCompanyID(uuid.New())
	dir := &fakeDirectory{
		members: map[domain.ActorID]*domain.CompanyMembership{actor: {CompanyID: companyID, Role: domain.RoleCompanyAdmin}},
	}
	caps, err := NewResolver(dir).Resolve(context.Background(), ResolveInput{ActorID: actor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caps.Memberships) != 0 {
		t.Error("membership lookup should not run without an org hint")
	}
}

func TestResolveIgnoresInactiveRecruiter(t *testing.T) {
	actor := domain.ActorID("actor-3")
	dir := &fakeDirectory{
		recruiters: map[domain.ActorID]*domain.Recruiter{actor: {ID: domain.NewRecruiterID(uuid.New()), Status: "suspended"}},
	}
	caps, err := NewResolver(dir).Resolve(context.Background(), ResolveInput{ActorID: actor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps.RecruiterID != nil {
		t.Error("suspended recruiter should not grant the recruiter capability")
	}
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection reset")}
	_, err := NewResolver(dir).Resolve(context.Background(), ResolveInput{ActorID: "actor-4"})
	if err == nil {
		t.Fatal("store errors must propagate, not fail closed")
	}
}
