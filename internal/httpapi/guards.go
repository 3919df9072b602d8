package httpapi

import (
	"net/http"

	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
)

// requireAccess gates a route on the role policy table alone. The response
// bodies here are part of the API contract consumed by the web frontend:
// a policy denial is always {"error":"Unauthorized"}.
func (a *API) requireAccess(resource authz.Resource, action authz.Action, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		dec := a.gate.Authorize(r.Context(), principal.UserID, principal.Role, resource, action, "", requestMeta(r))
		if !dec.Allowed {
			writeError(w, r, http.StatusForbidden, "Unauthorized")
			return
		}
		next(w, r)
	})
}

// requireOwnership gates a mutating route on both the policy table and the
// instance owner. The action is derived from the HTTP method; the instance
// id comes from the route or, for older clients, the id query parameter.
// An ownership denial is {"error":"Forbidden"}, a policy denial stays
// {"error":"Unauthorized"}.
func (a *API) requireOwnership(resource authz.Resource, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id := r.PathValue("id")
		if id == "" {
			id = r.URL.Query().Get("id")
		}
		if id == "" {
			writeError(w, r, http.StatusBadRequest, "Resource ID is required")
			return
		}
		dec := a.gate.Authorize(r.Context(), principal.UserID, principal.Role, resource, deriveAction(r.Method), id, requestMeta(r))
		if !dec.Allowed {
			if dec.Reason == authz.ReasonOwnershipDenied {
				writeError(w, r, http.StatusForbidden, "Forbidden")
				return
			}
			writeError(w, r, http.StatusForbidden, "Unauthorized")
			return
		}
		next(w, r)
	})
}

func deriveAction(method string) authz.Action {
	switch method {
	case http.MethodDelete:
		return authz.ActionDelete
	default:
		// PUT, PATCH and settle-style POSTs all mutate an existing row.
		return authz.ActionUpdate
	}
}

func requestMeta(r *http.Request) authz.RequestMeta {
	return authz.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Path:      r.URL.Path,
	}
}
