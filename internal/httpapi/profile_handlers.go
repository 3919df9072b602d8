package httpapi

import (
	"net/http"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/donate"
	"missiondonate.org/internal/obs"
)

type profileUpdateRequest struct {
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	AvatarURL *string `json:"avatar_url"`
}

func (a *API) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := a.svc.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleProfileUpdate lets users edit their own profile. Profiles have no
// separate owner column, the profile id is the user id, so the check lives
// here instead of the ownership store.
func (a *API) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id := r.PathValue("id")
	if principal.Role != authz.RoleAdmin && id != principal.UserID {
		a.auditDenial(r, principal, authz.ResourceProfiles, id)
		writeError(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	profile, err := a.svc.UpdateProfile(r.Context(), id, donate.ProfileUpdate{
		FullName:  req.FullName,
		Bio:       req.Bio,
		City:      req.City,
		Country:   req.Country,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *API) auditDenial(r *http.Request, principal auth.Principal, resource authz.Resource, id string) {
	if a.recorder == nil {
		return
	}
	entry := audit.Entry{
		ActorID:    principal.UserID,
		Action:     "ACCESS_DENIED",
		Resource:   string(resource),
		ResourceID: id,
		Level:      audit.LevelWarning,
		IPAddress:  clientIP(r),
		UserAgent:  r.UserAgent(),
		Details: map[string]string{
			"role":   principal.Role.String(),
			"reason": "ownership_denied",
			"path":   r.URL.Path,
		},
	}
	if err := a.recorder.Record(r.Context(), entry); err != nil {
		obs.Errorf("audit record failed", err, map[string]any{"resource": entry.Resource})
	}
}
