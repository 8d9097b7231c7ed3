package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/sourcing"
	"github.com/splits-network/splits-sub003/internal/domain"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/middleware"
)

// CandidatesHandler serves candidate profiles, ownership and outreach.
type CandidatesHandler struct {
	getCandidate     *sourcing.GetCandidate
	establish        *sourcing.EstablishOwnership
	getSourcer       *sourcing.GetSourcer
	checkCanWork     *sourcing.CheckCanWork
	recordOutreach   *sourcing.RecordOutreach
	updateEngagement *sourcing.UpdateEngagement
	validate         *validator.Validate
	log              zerolog.Logger
}

func NewCandidatesHandler(
	getCandidate *sourcing.GetCandidate,
	establish *sourcing.EstablishOwnership,
	getSourcer *sourcing.GetSourcer,
	checkCanWork *sourcing.CheckCanWork,
	recordOutreach *sourcing.RecordOutreach,
	updateEngagement *sourcing.UpdateEngagement,
	log zerolog.Logger,
) *CandidatesHandler {
	return &CandidatesHandler{
		getCandidate:     getCandidate,
		establish:        establish,
		getSourcer:       getSourcer,
		checkCanWork:     checkCanWork,
		recordOutreach:   recordOutreach,
		updateEngagement: updateEngagement,
		validate:         validator.New(),
		log:              log,
	}
}

type candidateResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	ResumeURL   string `json:"resume_url,omitempty"`
	Location    string `json:"location,omitempty"`
	Headline    string `json:"headline,omitempty"`
}

func candidateToResponse(c domain.Candidate) candidateResponse {
	return candidateResponse{
		ID:          c.ID.String(),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		LinkedinURL: c.LinkedinURL,
		ResumeURL:   c.ResumeURL,
		Location:    c.Location,
		Headline:    c.Headline,
	}
}

type sourcerResponse struct {
	ID                  string    `json:"id"`
	CandidateID         string    `json:"candidate_id"`
	SourcerActorID      string    `json:"sourcer_actor_id"`
	SourcerType         string    `json:"sourcer_type"`
	SourcedAt           time.Time `json:"sourced_at"`
	ProtectionExpiresAt time.Time `json:"protection_expires_at"`
	Notes               string    `json:"notes,omitempty"`
}

func sourcerToResponse(s *domain.CandidateSourcer) sourcerResponse {
	return sourcerResponse{
		ID:                  s.ID,
		CandidateID:         s.CandidateID.String(),
		SourcerActorID:      s.SourcerActorID.String(),
		SourcerType:         s.SourcerType,
		SourcedAt:           s.SourcedAt,
		ProtectionExpiresAt: s.ProtectionExpiresAt,
		Notes:               s.Notes,
	}
}

type outreachResponse struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidate_id"`
	RecruiterID string     `json:"recruiter_id"`
	JobID       *string    `json:"job_id,omitempty"`
	Subject     string     `json:"subject"`
	SentAt      time.Time  `json:"sent_at"`
	OpenedAt    *time.Time `json:"opened_at,omitempty"`
	ClickedAt   *time.Time `json:"clicked_at,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
}

func outreachToResponse(rec *domain.OutreachRecord) outreachResponse {
	resp := outreachResponse{
		ID:          rec.ID.String(),
		CandidateID: rec.CandidateID.String(),
		RecruiterID: rec.RecruiterID.String(),
		Subject:     rec.Subject,
		SentAt:      rec.SentAt,
		OpenedAt:    rec.OpenedAt,
		ClickedAt:   rec.ClickedAt,
		RepliedAt:   rec.RepliedAt,
	}
	if rec.JobID != nil {
		s := rec.JobID.String()
		resp.JobID = &s
	}
	return resp
}

func candidateIDFromURL(r *http.Request) (domain.CandidateID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return domain.CandidateID{}, false
	}
	return domain.NewCandidateID(id), true
}

// Get serves one candidate profile, masked per the caller's relationship.
func (h *CandidatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid candidate id")
		return
	}
	caps := middleware.CapabilitiesFromContext(r.Context())
	c, err := h.getCandidate.Execute(r.Context(), id, caps)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidateToResponse(*c))
}

// EstablishSourcer claims the candidate for the calling recruiter. Platform
// admins may source on behalf of internal tooling.
func (h *CandidatesHandler) EstablishSourcer(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid candidate id")
		return
	}
	var body struct {
		WindowDays int    `json:"window_days" validate:"omitempty,min=1,max=3650"`
		Notes      string `json:"notes" validate:"max=2000"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid body")
			return
		}
		if err := h.validate.Struct(&body); err != nil {
			writeErr(w, http.StatusBadRequest, "", err.Error())
			return
		}
	}

	caps := middleware.CapabilitiesFromContext(r.Context())
	input := sourcing.EstablishOwnershipInput{
		CandidateID: id,
		WindowDays:  body.WindowDays,
		Notes:       body.Notes,
	}
	switch {
	case caps.RecruiterID != nil:
		input.SourcerID = domain.ActorID(caps.RecruiterID.String())
		input.SourcerType = domain.SourcerTypeRecruiter
	case caps.PlatformAdmin:
		input.SourcerID = middleware.ActorFromContext(r.Context())
		input.SourcerType = domain.SourcerTypePlatform
	default:
		writeErr(w, http.StatusForbidden, "", "only recruiters and platform admins may source candidates")
		return
	}

	s, err := h.establish.Execute(r.Context(), input)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sourcerToResponse(s))
}

// GetSourcer returns the candidate's active sourcer record.
func (h *CandidatesHandler) GetSourcer(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid candidate id")
		return
	}
	s, err := h.getSourcer.Execute(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sourcerToResponse(s))
}

// CanWork reports whether the calling recruiter may work the candidate.
func (h *CandidatesHandler) CanWork(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid candidate id")
		return
	}
	caps := middleware.CapabilitiesFromContext(r.Context())
	actorID := middleware.ActorFromContext(r.Context())
	if caps.RecruiterID != nil {
		actorID = domain.ActorID(caps.RecruiterID.String())
	}
	canWork, err := h.checkCanWork.Execute(r.Context(), id, actorID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_work": canWork})
}

// RecordOutreach logs a recruiter message to the candidate. First contact
// with an unprotected candidate implicitly sources them.
func (h *CandidatesHandler) RecordOutreach(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid candidate id")
		return
	}
	caps := middleware.CapabilitiesFromContext(r.Context())
	if caps.RecruiterID == nil {
		writeErr(w, http.StatusForbidden, "", "only recruiters may send outreach")
		return
	}
	var body struct {
		Subject string `json:"subject" validate:"required,max=500"`
		Body    string `json:"body" validate:"required,max=20000"`
		JobID   string `json:"job_id" validate:"omitempty,uuid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	input := sourcing.RecordOutreachInput{
		CandidateID: id,
		RecruiterID: *caps.RecruiterID,
		Subject:     body.Subject,
		Body:        body.Body,
	}
	if body.JobID != "" {
		jid, err := uuid.Parse(body.JobID)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid job id")
			return
		}
		jobID := domain.NewJobID(jid)
		input.JobID = &jobID
	}

	rec, err := h.recordOutreach.Execute(r.Context(), input)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, outreachToResponse(rec))
}

// RecordEngagement stamps an engagement event on an outreach record.
func (h *CandidatesHandler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid outreach id")
		return
	}
	var body struct {
		Event string `json:"event" validate:"required,oneof=opened clicked replied bounced unsubscribed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	rec, err := h.updateEngagement.Execute(r.Context(), domain.NewOutreachID(id), body.Event)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outreachToResponse(rec))
}
