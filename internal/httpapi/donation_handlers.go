package httpapi

import (
	"context"
	"net/http"

	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/donate"
)

type donationCreateRequest struct {
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
	DonorEmail string `json:"donor_email"`
	Message    string `json:"message"`
}

func (a *API) handleDonationCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	var req donationCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	donation, err := a.svc.CreateDonation(r.Context(), principal.UserID, req.CampaignID, req.Amount, req.DonorEmail, req.Message)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, donation)
}

// handleDonationList serves either a campaign's donations or, by default,
// the caller's own giving history.
func (a *API) handleDonationList(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if campaignID := r.URL.Query().Get("campaign_id"); campaignID != "" {
		donations, err := a.svc.ListDonationsByCampaign(r.Context(), campaignID, limit)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.scrubDonorContact(r.Context(), principal, campaignID, donations)
		writeJSON(w, http.StatusOK, map[string]any{"donations": donations})
		return
	}
	donations, err := a.svc.ListDonationsByDonor(r.Context(), principal.UserID, limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": donations})
}

// handleDonationSummary returns the caller's own giving totals for the
// donor dashboard.
func (a *API) handleDonationSummary(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	stats, err := a.svc.DonorStats(r.Context(), principal.UserID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// scrubDonorContact hides donor identity and contact details in a
// campaign-scoped listing from everyone but the donor themselves, the
// campaign's missionary and admins. The same rule the single-donation
// endpoint applies.
func (a *API) scrubDonorContact(ctx context.Context, principal auth.Principal, campaignID string, donations []donate.Donation) {
	if principal.Role == authz.RoleAdmin {
		return
	}
	if campaign, err := a.svc.GetCampaign(ctx, campaignID); err == nil && campaign.MissionaryID == principal.UserID {
		return
	}
	for i := range donations {
		if donations[i].DonorID == principal.UserID {
			continue
		}
		donations[i].DonorID = ""
		donations[i].DonorEmail = ""
	}
}

func (a *API) handleDonationGet(w http.ResponseWriter, r *http.Request) {
	donation, err := a.svc.GetDonation(r.Context(), r.PathValue("id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	// Donation records carry donor contact details, so reads beyond the
	// owner are limited to admins.
	principal, _ := auth.PrincipalFromContext(r.Context())
	if principal.Role != authz.RoleAdmin && donation.DonorID != principal.UserID {
		writeError(w, r, http.StatusForbidden, "Forbidden")
		return
	}
	writeJSON(w, http.StatusOK, donation)
}

func (a *API) handleDonationComplete(w http.ResponseWriter, r *http.Request) {
	donation, err := a.svc.CompleteDonation(r.Context(), resourceID(r))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, donation)
}

func (a *API) handleDonationRefund(w http.ResponseWriter, r *http.Request) {
	donation, err := a.svc.RefundDonation(r.Context(), resourceID(r))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, donation)
}
