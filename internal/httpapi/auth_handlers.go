package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/donate"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      donate.User `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < 8 {
		writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	// Self-service registration never grants admin; operators are promoted
	// out of band. The role is normalized here so no casing or whitespace
	// variant slips past to the less strict service whitelist.
	role := strings.TrimSpace(strings.ToLower(req.Role))
	if role != "missionary" && role != "donor" {
		writeError(w, r, http.StatusBadRequest, "role must be missionary or donor")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	user, profile, err := a.svc.RegisterUser(r.Context(), req.Email, hash, role)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if req.FullName != "" {
		if updated, err := a.svc.UpdateProfile(r.Context(), user.ID, donate.ProfileUpdate{FullName: &req.FullName}); err == nil {
			profile = updated
		}
	}

	token, expiresAt, err := a.tokens.Generate(user.ID, authz.ParseRole(user.Role))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
		"profile":    profile,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.svc.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, donate.ErrNotFound) || errors.Is(err, donate.ErrInvalidInput) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if user.Status != donate.UserActive {
		writeError(w, r, http.StatusForbidden, "account disabled")
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := a.tokens.Generate(user.ID, authz.ParseRole(user.Role))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// handleMe returns the authenticated user with their profile.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}
	user, err := a.svc.GetUser(r.Context(), principal.UserID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	profile, err := a.svc.GetProfile(r.Context(), principal.UserID)
	if err != nil && !errors.Is(err, donate.ErrNotFound) {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "profile": profile})
}
