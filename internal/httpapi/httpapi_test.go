package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/donate"
)

// memStore is an in-memory donate.Store and authz.OwnershipStore used as the
// backing fixture for handler tests.
type memStore struct {
	mu            sync.Mutex
	users         map[string]donate.User
	profiles      map[string]donate.Profile
	campaigns     map[string]donate.Campaign
	donations     map[string]donate.Donation
	organizations map[string]donate.Organization
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[string]donate.User{},
		profiles:      map[string]donate.Profile{},
		campaigns:     map[string]donate.Campaign{},
		donations:     map[string]donate.Donation{},
		organizations: map[string]donate.Organization{},
	}
}

func (m *memStore) CreateUser(_ context.Context, u *donate.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return donate.ErrConflict
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (donate.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return donate.User{}, donate.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (donate.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return donate.User{}, donate.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context, limit int) ([]donate.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]donate.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateUserStatus(_ context.Context, id, status string) (donate.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return donate.User{}, donate.ErrNotFound
	}
	u.Status = status
	m.users[id] = u
	return u, nil
}

func (m *memStore) CreateProfile(_ context.Context, p *donate.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = *p
	return nil
}

func (m *memStore) GetProfile(_ context.Context, id string) (donate.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return donate.Profile{}, donate.ErrNotFound
	}
	return p, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id string, upd donate.ProfileUpdate) (donate.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return donate.Profile{}, donate.ErrNotFound
	}
	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	if upd.City != nil {
		p.City = *upd.City
	}
	if upd.Country != nil {
		p.Country = *upd.Country
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = *upd.AvatarURL
	}
	m.profiles[id] = p
	return p, nil
}

func (m *memStore) CreateCampaign(_ context.Context, c *donate.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.campaigns {
		if existing.Slug == c.Slug {
			return donate.ErrConflict
		}
	}
	m.campaigns[c.ID] = *c
	return nil
}

func (m *memStore) GetCampaign(_ context.Context, id string) (donate.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return donate.Campaign{}, donate.ErrNotFound
	}
	return c, nil
}

func (m *memStore) GetCampaignBySlug(_ context.Context, slug string) (donate.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.campaigns {
		if c.Slug == slug {
			return c, nil
		}
	}
	return donate.Campaign{}, donate.ErrNotFound
}

func (m *memStore) ListCampaigns(_ context.Context, status string, limit int) ([]donate.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]donate.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateCampaign(_ context.Context, id string, upd donate.CampaignUpdate) (donate.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return donate.Campaign{}, donate.ErrNotFound
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Goal != nil {
		c.Goal = *upd.Goal
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	m.campaigns[id] = c
	return c, nil
}

func (m *memStore) DeleteCampaign(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return donate.ErrNotFound
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memStore) CreateDonation(_ context.Context, d *donate.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations[d.ID] = *d
	return nil
}

func (m *memStore) GetDonation(_ context.Context, id string) (donate.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return donate.Donation{}, donate.ErrNotFound
	}
	return d, nil
}

func (m *memStore) ListDonationsByCampaign(_ context.Context, campaignID string, limit int) ([]donate.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]donate.Donation, 0)
	for _, d := range m.donations {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListDonationsByDonor(_ context.Context, donorID string, limit int) ([]donate.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]donate.Donation, 0)
	for _, d := range m.donations {
		if d.DonorID == donorID {
			out = append(out, d)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) SettleDonation(_ context.Context, id, status string) (donate.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return donate.Donation{}, donate.ErrNotFound
	}
	switch {
	case d.Status == donate.DonationPending && status == donate.DonationCompleted:
	case d.Status == donate.DonationCompleted && status == donate.DonationRefunded:
	default:
		return donate.Donation{}, donate.ErrConflict
	}
	d.Status = status
	m.donations[id] = d
	return d, nil
}

func (m *memStore) DonorStats(_ context.Context, donorID string) (donate.DonorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st donate.DonorStats
	campaigns := map[string]struct{}{}
	for _, d := range m.donations {
		if d.DonorID != donorID {
			continue
		}
		st.DonationCount++
		campaigns[d.CampaignID] = struct{}{}
		if d.Status == donate.DonationCompleted {
			st.TotalDonated += d.Amount
		}
	}
	st.CampaignsSupported = len(campaigns)
	return st, nil
}

func (m *memStore) CreateOrganization(_ context.Context, o *donate.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.organizations[o.ID] = *o
	return nil
}

func (m *memStore) GetOrganization(_ context.Context, id string) (donate.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.organizations[id]
	if !ok {
		return donate.Organization{}, donate.ErrNotFound
	}
	return o, nil
}

func (m *memStore) ListOrganizations(_ context.Context, limit int) ([]donate.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]donate.Organization, 0, len(m.organizations))
	for _, o := range m.organizations {
		out = append(out, o)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateOrganization(_ context.Context, id string, upd donate.OrganizationUpdate) (donate.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.organizations[id]
	if !ok {
		return donate.Organization{}, donate.ErrNotFound
	}
	if upd.Name != nil {
		o.Name = *upd.Name
	}
	if upd.Description != nil {
		o.Description = *upd.Description
	}
	if upd.Website != nil {
		o.Website = *upd.Website
	}
	m.organizations[id] = o
	return o, nil
}

func (m *memStore) DeleteOrganization(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.organizations[id]; !ok {
		return donate.ErrNotFound
	}
	delete(m.organizations, id)
	return nil
}

func (m *memStore) OwnerOf(_ context.Context, resource authz.Resource, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch resource {
	case authz.ResourceCampaigns:
		if c, ok := m.campaigns[id]; ok {
			return c.MissionaryID, nil
		}
	case authz.ResourceDonations:
		if d, ok := m.donations[id]; ok {
			return d.DonorID, nil
		}
	case authz.ResourceOrganizations:
		if o, ok := m.organizations[id]; ok {
			return o.OwnerID, nil
		}
	}
	return "", authz.ErrNoOwner
}

// captureSink records audit entries synchronously.
type captureSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (c *captureSink) Record(_ context.Context, entry audit.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return nil
}

func (c *captureSink) all() []audit.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]audit.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

type testEnv struct {
	api    *API
	srv    *httptest.Server
	store  *memStore
	sink   *captureSink
	tokens *auth.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	sink := &captureSink{}
	svc, err := donate.NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	tokens, err := auth.NewTokens("test-secret-key", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	gate := authz.NewGate(authz.NewChecker(store), sink)
	api := New(Options{}, ReadyProbe{}, "test", tokens, gate, svc, nil, sink)
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{api: api, srv: srv, store: store, sink: sink, tokens: tokens}
}

// seedUser inserts a user directly and returns a bearer token for them.
func (e *testEnv) seedUser(t *testing.T, id, role string) string {
	t.Helper()
	e.store.users[id] = donate.User{ID: id, Email: id + "@example.org", Role: role, Status: donate.UserActive}
	e.store.profiles[id] = donate.Profile{ID: id}
	token, _, err := e.tokens.Generate(id, authz.ParseRole(role))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
