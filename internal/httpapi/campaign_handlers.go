package httpapi

import (
	"net/http"
	"time"

	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/donate"
)

type campaignCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        int64  `json:"goal"`
}

type campaignUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Goal        *int64     `json:"goal"`
	Status      *string    `json:"status"`
	ImageURL    *string    `json:"image_url"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (a *API) handleCampaignCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	var req campaignCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	campaign, err := a.svc.CreateCampaign(r.Context(), principal.UserID, req.Title, req.Description, req.Goal)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (a *API) handleCampaignList(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	campaigns, err := a.svc.ListCampaigns(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": campaigns})
}

func (a *API) handleCampaignGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	// Slug lookups share the route so the public site can link by name.
	campaign, err := a.svc.GetCampaign(r.Context(), id)
	if err != nil {
		campaign, err = a.svc.GetCampaignBySlug(r.Context(), id)
	}
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (a *API) handleCampaignUpdate(w http.ResponseWriter, r *http.Request) {
	var req campaignUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	upd := donate.CampaignUpdate{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	campaign, err := a.svc.UpdateCampaign(r.Context(), resourceID(r), upd)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (a *API) handleCampaignDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteCampaign(r.Context(), resourceID(r)); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resourceID mirrors the guard's id resolution so handler and guard always
// act on the same instance.
func resourceID(r *http.Request) string {
	if id := r.PathValue("id"); id != "" {
		return id
	}
	return r.URL.Query().Get("id")
}
