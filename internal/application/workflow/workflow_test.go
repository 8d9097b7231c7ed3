package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/splits-network/splits-sub003/internal/application/ports"
	"github.com/splits-network/splits-sub003/internal/domain"
	domerrors "github.com/splits-network/splits-sub003/internal/domain/errors"
)

type stubClock struct{ now time.Time }

func (s stubClock) Now() time.Time { return s.now }

type fakeAppRepo struct {
	apps map[domain.ApplicationID]*domain.Application
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[domain.ApplicationID]*domain.Application)}
}

func (r *fakeAppRepo) Create(_ context.Context, app *domain.Application) error {
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeAppRepo) GetByID(_ context.Context, id domain.ApplicationID) (*domain.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	copied := *app
	return &copied, nil
}

func (r *fakeAppRepo) UpdateStage(_ context.Context, id domain.ApplicationID, stage domain.Stage, notes string, at time.Time) error {
	app, ok := r.apps[id]
	if !ok {
		return domerrors.ErrNotFound
	}
	app.Stage = stage
	if notes != "" {
		app.Notes = notes
	}
	app.UpdatedAt = at
	return nil
}

func (r *fakeAppRepo) MarkAccepted(_ context.Context, id domain.ApplicationID, at time.Time) (bool, error) {
	app, ok := r.apps[id]
	if !ok {
		return false, domerrors.ErrNotFound
	}
	if app.AcceptedByCompany {
		return false, nil
	}
	app.AcceptedByCompany = true
	t := at
	app.AcceptedAt = &t
	app.UpdatedAt = at
	return true, nil
}

type fakeJobRepo struct {
	jobs map[domain.JobID]*domain.Job
}

func (r *fakeJobRepo) GetByID(_ context.Context, id domain.JobID) (*domain.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *j
	return &copied, nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditLogEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditLogEntry) error {
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeAuditRepo) ListByApplication(_ context.Context, id domain.ApplicationID) ([]*domain.AuditLogEntry, error) {
	var out []*domain.AuditLogEntry
	for _, e := range r.entries {
		if e.ApplicationID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.events = append(p.events, eventType)
	return p.err
}

type fixture struct {
	apps   *fakeAppRepo
	jobs   *fakeJobRepo
	audit  *fakeAuditRepo
	events *recordingPublisher
	clock  stubClock

	companyID domain.CompanyID
	jobID     domain.JobID
	candID    domain.CandidateID
	recID     domain.RecruiterID
	appID     domain.ApplicationID
}

func newFixture(stage domain.Stage) *fixture {
	f := &fixture{
		apps:      newFakeAppRepo(),
		audit:     &fakeAuditRepo{},
		events:    &recordingPublisher{},
		clock:     stubClock{time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)},
		companyID: domain.NewCompanyID(uuid.New()),
		jobID:     domain.NewJobID(uuid.New()),
		candID:    domain.NewCandidateID(uuid.New()),
		recID:     domain.NewRecruiterID(uuid.New()),
		appID:     domain.NewApplicationID(uuid.New()),
	}
	f.jobs = &fakeJobRepo{jobs: map[domain.JobID]*domain.Job{
		f.jobID: {ID: f.jobID, CompanyID: f.companyID, Title: "Backend Engineer"},
	}}
	f.apps.apps[f.appID] = &domain.Application{
		ID:          f.appID,
		JobID:       f.jobID,
		CandidateID: f.candID,
		RecruiterID: &f.recID,
		Stage:       stage,
	}
	return f
}

func (f *fixture) companyActor() ActorContext {
	return ActorContext{
		ActorID: "company-user",
		Capabilities: domain.CapabilitySet{
			Memberships: []domain.CompanyMembership{{CompanyID: f.companyID, Role: domain.RoleCompanyAdmin}},
		},
	}
}

func (f *fixture) candidateActor() ActorContext {
	return ActorContext{ActorID: "candidate-user", Capabilities: domain.CapabilitySet{CandidateID: &f.candID}}
}

func (f *fixture) adminActor() ActorContext {
	return ActorContext{ActorID: "admin-user", Capabilities: domain.CapabilitySet{PlatformAdmin: true}}
}

func TestTransitionWritesAuditAndEvent(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	uc := NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)

	app, err := uc.Execute(context.Background(), TransitionInput{
		ApplicationID: f.appID,
		NewStage:      domain.StageInterview,
		Actor:         f.companyActor(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if app.Stage != domain.StageInterview {
		t.Errorf("stage = %s", app.Stage)
	}
	if len(f.audit.entries) != 1 {
		t.Fatalf("audit entries = %d", len(f.audit.entries))
	}
	entry := f.audit.entries[0]
	if entry.Action != domain.AuditActionStageChanged || entry.OldValue != "submitted" || entry.NewValue != "interview" {
		t.Errorf("audit entry = %+v", entry)
	}
	if entry.PerformedByRole != domain.RoleCompanyAdmin {
		t.Errorf("role = %q", entry.PerformedByRole)
	}
	if len(f.events.events) != 1 || f.events.events[0] != ports.EventApplicationStageChanged {
		t.Errorf("events = %v", f.events.events)
	}
}

func TestTransitionFromTerminalFails(t *testing.T) {
	for _, terminal := range []domain.Stage{domain.StageHired, domain.StageRejected, domain.StageWithdrawn} {
		f := newFixture(terminal)
		uc := NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)
		_, err := uc.Execute(context.Background(), TransitionInput{
			ApplicationID: f.appID,
			NewStage:      domain.StageScreen,
			Actor:         f.adminActor(),
		})
		if !errors.Is(err, domerrors.ErrInvalidTransition) {
			t.Errorf("from %s: got %v, want ErrInvalidTransition", terminal, err)
		}
		if len(f.audit.entries) != 0 {
			t.Errorf("failed transition from %s must not write audit entries", terminal)
		}
	}
}

func TestTransitionPermissions(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	uc := NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)

	// The candidate is not the pending party at submitted, but may withdraw.
	_, err := uc.Execute(context.Background(), TransitionInput{
		ApplicationID: f.appID,
		NewStage:      domain.StageInterview,
		Actor:         f.candidateActor(),
	})
	if !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("candidate advancing company stage: got %v, want ErrForbidden", err)
	}
	if _, err := uc.Execute(context.Background(), TransitionInput{
		ApplicationID: f.appID,
		NewStage:      domain.StageWithdrawn,
		Actor:         f.candidateActor(),
	}); err != nil {
		t.Errorf("candidate withdrawal should always be allowed: %v", err)
	}

	// A stranger with no covering capability cannot touch the row.
	f = newFixture(domain.StageSubmitted)
	uc = NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)
	otherRec := domain.NewRecruiterID(uuid.New())
	_, err = uc.Execute(context.Background(), TransitionInput{
		ApplicationID: f.appID,
		NewStage:      domain.StageInterview,
		Actor:         ActorContext{ActorID: "other", Capabilities: domain.CapabilitySet{RecruiterID: &otherRec}},
	})
	if !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("foreign recruiter: got %v, want ErrForbidden", err)
	}
}

func TestTransitionMissingApplication(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	uc := NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)
	_, err := uc.Execute(context.Background(), TransitionInput{
		ApplicationID: domain.NewApplicationID(uuid.New()),
		NewStage:      domain.StageInterview,
		Actor:         f.adminActor(),
	})
	if !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestTransitionSurvivesPublishFailure(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	f.events.err = errors.New("broker down")
	uc := NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)

	app, err := uc.Execute(context.Background(), TransitionInput{
		ApplicationID: f.appID,
		NewStage:      domain.StageInterview,
		Actor:         f.companyActor(),
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the transition: %v", err)
	}
	if app.Stage != domain.StageInterview {
		t.Errorf("stage = %s", app.Stage)
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	uc := NewAccept(f.apps, f.jobs, f.audit, f.events, f.clock)

	first, err := uc.Execute(context.Background(), AcceptInput{ApplicationID: f.appID, Actor: f.companyActor()})
	if err != nil {
		t.Fatal(err)
	}
	if !first.AcceptedByCompany || first.AcceptedAt == nil {
		t.Errorf("first accept: %+v", first)
	}

	second, err := uc.Execute(context.Background(), AcceptInput{ApplicationID: f.appID, Actor: f.companyActor()})
	if err != nil {
		t.Fatalf("second accept must be a no-op, not an error: %v", err)
	}
	if !second.AcceptedByCompany {
		t.Error("second accept should report the accepted state")
	}
	if len(f.audit.entries) != 1 {
		t.Errorf("accept must not duplicate audit entries, got %d", len(f.audit.entries))
	}
	if len(f.events.events) != 1 {
		t.Errorf("accept must not re-publish, got %v", f.events.events)
	}
}

func TestAcceptRequiresOwningCompany(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	uc := NewAccept(f.apps, f.jobs, f.audit, f.events, f.clock)

	otherCompany := domain.NewCompanyID(uuid.New())
	actor := ActorContext{ActorID: "x", Capabilities: domain.CapabilitySet{
		Memberships: []domain.CompanyMembership{{CompanyID: otherCompany, Role: domain.RoleCompanyAdmin}},
	}}
	if _, err := uc.Execute(context.Background(), AcceptInput{ApplicationID: f.appID, Actor: actor}); !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("foreign company accept: got %v, want ErrForbidden", err)
	}

	if _, err := uc.Execute(context.Background(), AcceptInput{ApplicationID: f.appID, Actor: f.candidateActor()}); !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("candidate accept: got %v, want ErrForbidden", err)
	}
}

func TestAcceptRejectsInvisibleStages(t *testing.T) {
	for _, stage := range []domain.Stage{domain.StageDraft, domain.StageRecruiterProposed, domain.StageRejected} {
		f := newFixture(stage)
		uc := NewAccept(f.apps, f.jobs, f.audit, f.events, f.clock)
		_, err := uc.Execute(context.Background(), AcceptInput{ApplicationID: f.appID, Actor: f.companyActor()})
		if !errors.Is(err, domerrors.ErrInvalidTransition) {
			t.Errorf("accept at %s: got %v, want ErrInvalidTransition", stage, err)
		}
	}
}

func TestCreateApplication(t *testing.T) {
	f := newFixture(domain.StageDraft)
	uc := NewCreateApplication(f.apps, f.audit, f.events, f.clock)

	app, err := uc.Execute(context.Background(), CreateApplicationInput{
		JobID:       f.jobID,
		CandidateID: f.candID,
		RecruiterID: &f.recID,
		Proposed:    true,
		Actor:       ActorContext{ActorID: "recruiter-user"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if app.Stage != domain.StageRecruiterProposed {
		t.Errorf("stage = %s", app.Stage)
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].Action != domain.AuditActionCreated {
		t.Errorf("audit = %+v", f.audit.entries)
	}
	if f.events.events[len(f.events.events)-1] != ports.EventApplicationCreated {
		t.Errorf("events = %v", f.events.events)
	}

	// A proposed application without a recruiter makes no sense.
	if _, err := uc.Execute(context.Background(), CreateApplicationInput{
		JobID:       f.jobID,
		CandidateID: f.candID,
		Proposed:    true,
	}); err == nil {
		t.Error("proposed without recruiter should fail")
	}
}

func TestGetProposalDerivation(t *testing.T) {
	f := newFixture(domain.StageRecruiterProposed)
	due := f.clock.now.Add(10 * time.Hour)
	f.apps.apps[f.appID].ActionDueDate = &due
	uc := NewGetProposal(f.apps, f.jobs, f.clock)

	p, err := uc.Execute(context.Background(), f.appID, f.candidateActor().Capabilities)
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != domain.ProposalJobOpportunity || p.Pending != domain.PartyCandidate {
		t.Errorf("derived = %+v", p)
	}
	if !p.CanAct {
		t.Error("linked candidate should be able to act")
	}
	if !p.Urgency.IsUrgent {
		t.Error("10h remaining should be urgent")
	}

	// The owning company may look, but it is not its turn.
	p, err = uc.Execute(context.Background(), f.appID, f.companyActor().Capabilities)
	if err != nil {
		t.Fatal(err)
	}
	if p.CanAct {
		t.Error("company must not act while the candidate is pending")
	}

	otherRec := domain.NewRecruiterID(uuid.New())
	if _, err := uc.Execute(context.Background(), f.appID, domain.CapabilitySet{RecruiterID: &otherRec}); !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("uncovered caller: got %v, want ErrForbidden", err)
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(domain.StageSubmitted)
	transition := NewTransition(f.apps, f.jobs, f.audit, f.events, f.clock)
	if _, err := transition.Execute(context.Background(), TransitionInput{
		ApplicationID: f.appID, NewStage: domain.StageInterview, Actor: f.companyActor(),
	}); err != nil {
		t.Fatal(err)
	}
	accept := NewAccept(f.apps, f.jobs, f.audit, f.events, f.clock)
	if _, err := accept.Execute(context.Background(), AcceptInput{ApplicationID: f.appID, Actor: f.companyActor()}); err != nil {
		t.Fatal(err)
	}

	uc := NewHistory(f.apps, f.jobs, f.audit)
	entries, err := uc.Execute(context.Background(), f.appID, f.companyActor().Capabilities)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Action != domain.AuditActionStageChanged || entries[1].Action != domain.AuditActionAccepted {
		t.Errorf("history order: %s then %s", entries[0].Action, entries[1].Action)
	}

	if _, err := uc.Execute(context.Background(), f.appID, domain.CapabilitySet{}); !errors.Is(err, domerrors.ErrForbidden) {
		t.Errorf("capability-less history read: got %v, want ErrForbidden", err)
	}
}
