package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/collab"
	"github.com/splits-network/splits-sub003/internal/domain"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/middleware"
)

// PlacementsHandler serves placements and collaboration splits.
type PlacementsHandler struct {
	createPlacement *collab.CreatePlacement
	addCollaborator *collab.AddCollaborator
	getPlacement    *collab.GetPlacement
	validate        *validator.Validate
	log             zerolog.Logger
}

func NewPlacementsHandler(
	createPlacement *collab.CreatePlacement,
	addCollaborator *collab.AddCollaborator,
	getPlacement *collab.GetPlacement,
	log zerolog.Logger,
) *PlacementsHandler {
	return &PlacementsHandler{
		createPlacement: createPlacement,
		addCollaborator: addCollaborator,
		getPlacement:    getPlacement,
		validate:        validator.New(),
		log:             log,
	}
}

type placementResponse struct {
	ID             string    `json:"id"`
	ApplicationID  string    `json:"application_id"`
	JobID          string    `json:"job_id"`
	CandidateID    string    `json:"candidate_id"`
	CompanyID      string    `json:"company_id"`
	RecruiterID    string    `json:"recruiter_id"`
	Salary         float64   `json:"salary"`
	FeePercentage  float64   `json:"fee_percentage"`
	FeeAmount      float64   `json:"fee_amount"`
	RecruiterShare float64   `json:"recruiter_share"`
	PlatformShare  float64   `json:"platform_share"`
	HiredAt        time.Time `json:"hired_at"`
}

func placementToResponse(p domain.Placement) placementResponse {
	return placementResponse{
		ID:             p.ID.String(),
		ApplicationID:  p.ApplicationID.String(),
		JobID:          p.JobID.String(),
		CandidateID:    p.CandidateID.String(),
		CompanyID:      p.CompanyID.String(),
		RecruiterID:    p.RecruiterID.String(),
		Salary:         p.Salary,
		FeePercentage:  p.FeePercentage,
		FeeAmount:      p.FeeAmount,
		RecruiterShare: p.RecruiterShare,
		PlatformShare:  p.PlatformShare,
		HiredAt:        p.HiredAt,
	}
}

type collaboratorResponse struct {
	ID               string    `json:"id"`
	PlacementID      string    `json:"placement_id"`
	RecruiterActorID string    `json:"recruiter_actor_id"`
	Role             string    `json:"role"`
	SplitPercentage  float64   `json:"split_percentage"`
	SplitAmount      float64   `json:"split_amount"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func collaboratorToResponse(c *domain.PlacementCollaborator) collaboratorResponse {
	return collaboratorResponse{
		ID:               c.ID,
		PlacementID:      c.PlacementID.String(),
		RecruiterActorID: c.RecruiterActorID.String(),
		Role:             c.Role,
		SplitPercentage:  c.SplitPercentage,
		SplitAmount:      c.SplitAmount,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
	}
}

func placementIDFromURL(r *http.Request) (domain.PlacementID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return domain.PlacementID{}, false
	}
	return domain.NewPlacementID(id), true
}

// Create records a placement for a hired, accepted application.
func (h *PlacementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ApplicationID    string  `json:"application_id" validate:"required,uuid"`
		Salary           float64 `json:"salary" validate:"required,gt=0"`
		FeePercentage    float64 `json:"fee_percentage" validate:"omitempty,gt=0,lte=100"`
		PlatformSharePct float64 `json:"platform_share_pct" validate:"omitempty,gt=0,lte=100"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	appID, _ := uuid.Parse(body.ApplicationID)
	p, err := h.createPlacement.Execute(r.Context(), collab.CreatePlacementInput{
		ApplicationID:    domain.NewApplicationID(appID),
		Salary:           body.Salary,
		FeePercentage:    body.FeePercentage,
		PlatformSharePct: body.PlatformSharePct,
		Capabilities:     middleware.CapabilitiesFromContext(r.Context()),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, placementToResponse(*p))
}

// Get serves one placement with its collaborators.
func (h *PlacementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := placementIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid placement id")
		return
	}
	p, collaborators, err := h.getPlacement.Execute(r.Context(), id, middleware.CapabilitiesFromContext(r.Context()))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]collaboratorResponse, 0, len(collaborators))
	for _, c := range collaborators {
		out = append(out, collaboratorToResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"placement":     placementToResponse(*p),
		"collaborators": out,
	})
}

// AddCollaborator records one recruiter's share of the placement fee.
func (h *PlacementsHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	id, ok := placementIDFromURL(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "invalid placement id")
		return
	}
	var body struct {
		RecruiterActorID string  `json:"recruiter_actor_id" validate:"required,max=128"`
		Role             string  `json:"role" validate:"required,oneof=sourcer submitter closer support"`
		SplitPercentage  float64 `json:"split_percentage" validate:"required,gt=0,lte=100"`
		SplitAmount      float64 `json:"split_amount" validate:"omitempty,gte=0"`
		Notes            string  `json:"notes" validate:"max=2000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	c, err := h.addCollaborator.Execute(r.Context(), collab.AddCollaboratorInput{
		PlacementID:      id,
		RecruiterActorID: domain.ActorID(body.RecruiterActorID),
		Role:             body.Role,
		SplitPercentage:  body.SplitPercentage,
		SplitAmount:      body.SplitAmount,
		Notes:            body.Notes,
		Capabilities:     middleware.CapabilitiesFromContext(r.Context()),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, collaboratorToResponse(c))
}

// PreviewSplits computes an advisory split of a fee share over roles.
// Nothing is written; actual collaborator rows may differ.
func (h *PlacementsHandler) PreviewSplits(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TotalShare float64 `json:"total_share" validate:"required,gt=0"`
		Roles      []struct {
			Role   string  `json:"role" validate:"required,oneof=sourcer submitter closer support"`
			Weight float64 `json:"weight" validate:"omitempty,gt=0"`
		} `json:"roles" validate:"required,min=1,dive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	roles := make([]domain.SplitRole, len(body.Roles))
	for i, role := range body.Roles {
		roles[i] = domain.SplitRole{Role: role.Role, Weight: role.Weight}
	}
	recommendations := domain.CalculateSplits(body.TotalShare, roles)
	if recommendations == nil {
		writeErr(w, http.StatusBadRequest, "", "no split weights to distribute")
		return
	}
	type splitResponse struct {
		Role            string  `json:"role"`
		SplitPercentage float64 `json:"split_percentage"`
		SplitAmount     float64 `json:"split_amount"`
	}
	out := make([]splitResponse, len(recommendations))
	for i, rec := range recommendations {
		out[i] = splitResponse{Role: rec.Role, SplitPercentage: rec.SplitPercentage, SplitAmount: rec.SplitAmount}
	}
	writeJSON(w, http.StatusOK, map[string]any{"splits": out})
}
