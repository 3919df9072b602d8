// Package httpapi is the HTTP surface of the Mission Donate platform. Every
// mutating route passes through the authorization guards backed by the
// policy evaluator in internal/authz.
package httpapi

import (
	"context"
	"net/http"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/donate"
	"missiondonate.org/internal/obs"
)

// ReadyProbe checks a backing dependency for the readiness endpoint.
type ReadyProbe struct {
	Pinger interface {
		Ping(ctx context.Context) error
	}
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Pinger == nil {
		return nil
	}
	return rp.Pinger.Ping(ctx)
}

// AuditReader lists audit entries for the admin review endpoint.
type AuditReader interface {
	ListAuditLogs(ctx context.Context, limit int) ([]audit.Entry, error)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	tokens   *auth.Tokens
	gate     *authz.Gate
	svc      *donate.Service
	auditLog AuditReader
	recorder audit.Recorder

	allowedOrigin string
	maxBodyBytes  int64
	rateBurst     int
	ratePerSec    int
}

// Options carry the request-shaping knobs from configuration.
type Options struct {
	AllowedOrigin string
	MaxBodyBytes  int64
	RateBurst     int
	RatePerSec    int
}

// New wires the routes. auditLog and recorder may be nil (entries are then
// neither listable nor persisted; the gate still denies correctly).
func New(opts Options, rp ReadyProbe, version string, tokens *auth.Tokens, gate *authz.Gate, svc *donate.Service, auditLog AuditReader, recorder audit.Recorder) *API {
	a := &API{
		mux:           http.NewServeMux(),
		readyProbe:    rp,
		version:       version,
		tokens:        tokens,
		gate:          gate,
		svc:           svc,
		auditLog:      auditLog,
		recorder:      recorder,
		allowedOrigin: opts.AllowedOrigin,
		maxBodyBytes:  opts.MaxBodyBytes,
		rateBurst:     opts.RateBurst,
		ratePerSec:    opts.RatePerSec,
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 40
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 20
	}

	// health/ready/info
	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.HandleFunc("GET /v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("GET /metrics", obs.Handler())

	// session
	a.mux.HandleFunc("POST /v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("GET /v1/me", a.handleMe)

	// campaigns
	a.handle("POST /v1/campaigns", a.requireAccess(authz.ResourceCampaigns, authz.ActionCreate, a.handleCampaignCreate))
	a.handle("GET /v1/campaigns", a.requireAccess(authz.ResourceCampaigns, authz.ActionRead, a.handleCampaignList))
	a.handle("GET /v1/campaigns/{id}", a.requireAccess(authz.ResourceCampaigns, authz.ActionRead, a.handleCampaignGet))
	a.handle("PUT /v1/campaigns/{id}", a.requireOwnership(authz.ResourceCampaigns, a.handleCampaignUpdate))
	a.handle("DELETE /v1/campaigns/{id}", a.requireOwnership(authz.ResourceCampaigns, a.handleCampaignDelete))

	// donations
	a.handle("POST /v1/donations", a.requireAccess(authz.ResourceDonations, authz.ActionCreate, a.handleDonationCreate))
	a.handle("GET /v1/donations", a.requireAccess(authz.ResourceDonations, authz.ActionRead, a.handleDonationList))
	a.handle("GET /v1/donations/summary", a.requireAccess(authz.ResourceDonations, authz.ActionRead, a.handleDonationSummary))
	a.handle("GET /v1/donations/{id}", a.requireAccess(authz.ResourceDonations, authz.ActionRead, a.handleDonationGet))
	a.handle("POST /v1/donations/{id}/complete", a.requireOwnership(authz.ResourceDonations, a.handleDonationComplete))
	a.handle("POST /v1/donations/{id}/refund", a.requireOwnership(authz.ResourceDonations, a.handleDonationRefund))

	// organizations
	a.handle("POST /v1/organizations", a.requireAccess(authz.ResourceOrganizations, authz.ActionCreate, a.handleOrganizationCreate))
	a.handle("GET /v1/organizations", a.requireAccess(authz.ResourceOrganizations, authz.ActionRead, a.handleOrganizationList))
	a.handle("GET /v1/organizations/{id}", a.requireAccess(authz.ResourceOrganizations, authz.ActionRead, a.handleOrganizationGet))
	a.handle("PUT /v1/organizations/{id}", a.requireOwnership(authz.ResourceOrganizations, a.handleOrganizationUpdate))
	a.handle("DELETE /v1/organizations/{id}", a.requireOwnership(authz.ResourceOrganizations, a.handleOrganizationDelete))

	// profiles
	a.handle("GET /v1/profiles/{id}", a.requireAccess(authz.ResourceProfiles, authz.ActionRead, a.handleProfileGet))
	a.handle("PUT /v1/profiles/{id}", a.requireAccess(authz.ResourceProfiles, authz.ActionUpdate, a.handleProfileUpdate))

	// administration
	a.handle("GET /v1/users", a.requireAccess(authz.ResourceUsers, authz.ActionRead, a.handleUserList))
	a.handle("GET /v1/users/{id}", a.requireAccess(authz.ResourceUsers, authz.ActionRead, a.handleUserGet))
	a.handle("PATCH /v1/users/{id}/status", a.requireAccess(authz.ResourceUsers, authz.ActionUpdate, a.handleUserStatus))
	a.handle("GET /v1/audit-logs", a.requireAccess(authz.ResourceAuditLogs, authz.ActionRead, a.handleAuditLogList))

	return a
}

func (a *API) handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h, a.allowedOrigin)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return h
}
