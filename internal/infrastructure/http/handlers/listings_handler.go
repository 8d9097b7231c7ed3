package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/application/scope"
	"github.com/splits-network/splits-sub003/internal/domain"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/middleware"
)

// ListingsHandler serves scoped listings. Every endpoint goes through the
// scope service; there is no unscoped list anywhere in the API.
type ListingsHandler struct {
	scope *scope.Service
	log   zerolog.Logger
}

func NewListingsHandler(scope *scope.Service, log zerolog.Logger) *ListingsHandler {
	return &ListingsHandler{scope: scope, log: log}
}

func parsePage(r *http.Request) scope.Page {
	q := r.URL.Query()
	p := scope.Page{Sort: q.Get("sort")}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		p.Offset = v
	}
	p.Asc = q.Get("order") == "asc"
	return p
}

func parseFilters(r *http.Request) scope.Filters {
	q := r.URL.Query()
	f := scope.Filters{Search: q.Get("search")}
	if v := q.Get("company_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			companyID := domain.NewCompanyID(id)
			f.CompanyID = &companyID
		}
	}
	if v := q.Get("stage"); v != "" {
		stage := domain.Stage(v)
		if stage.Valid() {
			f.Stage = &stage
		}
	}
	return f
}

func listEnvelope(data any, total int, p scope.Page) map[string]any {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	return map[string]any{
		"data":   data,
		"total":  total,
		"limit":  limit,
		"offset": p.Offset,
	}
}

type jobResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	SalaryMin     float64   `json:"salary_min,omitempty"`
	SalaryMax     float64   `json:"salary_max,omitempty"`
	FeePercentage float64   `json:"fee_percentage"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Jobs lists the jobs the caller may see.
func (h *ListingsHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFromContext(r.Context())
	p := parsePage(r)
	jobs, total, err := h.scope.ListJobs(r.Context(), caps, parseFilters(r), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobResponse{
			ID:            j.ID.String(),
			CompanyID:     j.CompanyID.String(),
			Title:         j.Title,
			Description:   j.Description,
			Location:      j.Location,
			SalaryMin:     j.SalaryMin,
			SalaryMax:     j.SalaryMax,
			FeePercentage: j.FeePercentage,
			Status:        j.Status,
			CreatedAt:     j.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, listEnvelope(out, total, p))
}

// Candidates lists the candidates the caller may see. For recruiters that
// is exactly the candidates they hold an active protection window on.
func (h *ListingsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFromContext(r.Context())
	p := parsePage(r)
	candidates, total, err := h.scope.ListCandidates(r.Context(), caps, parseFilters(r), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, candidateToResponse(c))
	}
	writeJSON(w, http.StatusOK, listEnvelope(out, total, p))
}

// Applications lists the applications the caller may see.
func (h *ListingsHandler) Applications(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFromContext(r.Context())
	p := parsePage(r)
	apps, total, err := h.scope.ListApplications(r.Context(), caps, parseFilters(r), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, applicationToResponse(app))
	}
	writeJSON(w, http.StatusOK, listEnvelope(out, total, p))
}

// Placements lists the placements the caller may see.
func (h *ListingsHandler) Placements(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFromContext(r.Context())
	p := parsePage(r)
	placements, total, err := h.scope.ListPlacements(r.Context(), caps, parseFilters(r), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]placementResponse, 0, len(placements))
	for _, placement := range placements {
		out = append(out, placementToResponse(placement))
	}
	writeJSON(w, http.StatusOK, listEnvelope(out, total, p))
}

type companyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Companies lists the companies the caller may see.
func (h *ListingsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	caps := middleware.CapabilitiesFromContext(r.Context())
	p := parsePage(r)
	companies, total, err := h.scope.ListCompanies(r.Context(), caps, parseFilters(r), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyResponse{
			ID:        c.ID.String(),
			Name:      c.Name,
			Website:   c.Website,
			CreatedAt: c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, listEnvelope(out, total, p))
}
