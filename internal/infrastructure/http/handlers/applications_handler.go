package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/workflow"
	"github.com/splits-network/splits-sub003/internal/domain"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/middleware"
)

// ApplicationsHandler serves the application workflow: create, transition,
// accept, proposal view and audit history.
type ApplicationsHandler struct {
	create      *workflow.CreateApplication
	transition  *workflow.Transition
	accept      *workflow.Accept
	getProposal *workflow.GetProposal
	history     *workflow.History
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewApplicationsHandler(
	create *workflow.CreateApplication,
	transition *workflow.Transition,
	accept *workflow.Accept,
	getProposal *workflow.GetProposal,
	history *workflow.History,
	log zerolog.Logger,
) *ApplicationsHandler {
	return &ApplicationsHandler{
		create:      create,
		transition:  transition,
		accept:      accept,
		getProposal: getProposal,
		history:     history,
		validate:    validator.New(),
		log:         log,
	}
}

type applicationResponse struct {
	ID                string     `json:"id"`
	JobID             string     `json:"job_id"`
	CandidateID       string     `json:"candidate_id"`
	RecruiterID       *string    `json:"recruiter_id,omitempty"`
	Stage             string     `json:"stage"`
	Notes             string     `json:"notes,omitempty"`
	AcceptedByCompany bool       `json:"accepted_by_company"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
	ActionDueDate     *time.Time `json:"action_due_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func applicationToResponse(app domain.Application) applicationResponse {
	resp := applicationResponse{
		ID:                app.ID.String(),
		JobID:             app.JobID.String(),
		CandidateID:       app.CandidateID.String(),
		Stage:             string(app.Stage),
		Notes:             app.Notes,
		AcceptedByCompany: app.AcceptedByCompany,
		AcceptedAt:        app.AcceptedAt,
		ActionDueDate:     app.ActionDueDate,
		CreatedAt:         app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}
	if app.RecruiterID != nil {
		s := app.RecruiterID.String()
		resp.RecruiterID = &s
	}
	return resp
}

type proposalResponse struct {
	Application    applicationResponse `json:"application"`
	Type           string              `json:"type"`
	PendingParty   string              `json:"pending_party"`
	Badge          string              `json:"badge"`
	HoursRemaining float64             `json:"hours_remaining"`
	IsUrgent       bool                `json:"is_urgent"`
	IsOverdue      bool                `json:"is_overdue"`
	CanAct         bool                `json:"can_act"`
}

func proposalToResponse(p *domain.Proposal) proposalResponse {
	return proposalResponse{
		Application:    applicationToResponse(p.Application),
		Type:           string(p.Type),
		PendingParty:   string(p.Pending),
		Badge:          p.Badge,
		HoursRemaining: p.Urgency.HoursRemaining,
		IsUrgent:       p.Urgency.IsUrgent,
		IsOverdue:      p.Urgency.IsOverdue,
		CanAct:         p.CanAct,
	}
}

func (h *ApplicationsHandler) actor(r *http.Request) workflow.ActorContext {
	return workflow.ActorContext{
		ActorID:      middleware.ActorFromContext(r.Context()),
		Capabilities: middleware.CapabilitiesFromContext(r.Context()),
	}
}

func applicationIDFromURL(r *http.Request) (domain.ApplicationID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return domain.ApplicationID{}, false
	}
	return domain.NewApplicationID(id), true
}

// Create opens a new application, or a recruiter-proposed opportunity when
// proposed is set.
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobID       string `json:"job_id" validate:"required,uuid"`
		CandidateID string `json:"candidate_id" validate:"required,uuid"`
		RecruiterID string `json:"recruiter_id" validate:"omitempty,uuid"`
		Proposed    bool   `json:"proposed"`
		Notes       string `json:"notes" validate:"max=10000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	jobID, _ := uuid.Parse(body.JobID)
	candidateID, _ := uuid.Parse(body.CandidateID)
	input := workflow.CreateApplicationInput{
		JobID:       domain.NewJobID(jobID),
		CandidateID: domain.NewCandidateID(candidateID),
		Proposed:    body.Proposed,
		Notes:       body.Notes,
		Actor:       h.actor(r),
	}
	if body.RecruiterID != "" {
		rid, _ := uuid.Parse(body.RecruiterID)
		recruiterID := domain.NewRecruiterID(rid)
		input.RecruiterID = &recruiterID
	} else if caps := input.Actor.Capabilities; caps.RecruiterID != nil {
		input.RecruiterID = caps.RecruiterID
	}

	app, err := h.create.Execute(r.Context(), input)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, applicationToResponse(*app))
}

// Get serves the derived proposal view of one application.
func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid application id")
		return
	}
	p, err := h.getProposal.Execute(r.Context(), id, middleware.CapabilitiesFromContext(r.Context()))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalToResponse(p))
}

// Transition moves the application to a new stage.
func (h *ApplicationsHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid application id")
		return
	}
	var body struct {
		Stage string `json:"stage" validate:"required"`
		Notes string `json:"notes" validate:"max=10000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	app, err := h.transition.Execute(r.Context(), workflow.TransitionInput{
		ApplicationID: id,
		NewStage:      domain.Stage(body.Stage),
		Notes:         body.Notes,
		Actor:         h.actor(r),
	})
	middleware.RecordTransition(body.Stage, err == nil)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationToResponse(*app))
}

// Accept marks the application accepted by the owning company. Safe to
// repeat; the second call returns the already-accepted row.
func (h *ApplicationsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid application id")
		return
	}
	app, err := h.accept.Execute(r.Context(), workflow.AcceptInput{
		ApplicationID: id,
		Actor:         h.actor(r),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationToResponse(*app))
}

type auditEntryResponse struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Actor     string            `json:"actor,omitempty"`
	Role      string            `json:"role,omitempty"`
	OldValue  string            `json:"old_value,omitempty"`
	NewValue  string            `json:"new_value,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// History serves the application's audit trail, oldest first.
func (h *ApplicationsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid application id")
		return
	}
	entries, err := h.history.Execute(r.Context(), id, middleware.CapabilitiesFromContext(r.Context()))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := auditEntryResponse{
			ID:        e.ID,
			Action:    e.Action,
			Role:      e.PerformedByRole,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
		if e.PerformedByActor != nil {
			resp.Actor = e.PerformedByActor.String()
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}
