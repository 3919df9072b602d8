package authz

import (
	"context"
	"errors"
	"testing"
)

type stubOwnershipStore struct {
	ownerFn func(ctx context.Context, resource Resource, id string) (string, error)
	calls   int
}

func (s *stubOwnershipStore) OwnerOf(ctx context.Context, resource Resource, id string) (string, error) {
	s.calls++
	if s.ownerFn != nil {
		return s.ownerFn(ctx, resource, id)
	}
	return "", ErrNoOwner
}

func TestIsOwnerMatches(t *testing.T) {
	store := &stubOwnershipStore{
		ownerFn: func(_ context.Context, _ Resource, _ string) (string, error) {
			return "user-1", nil
		},
	}
	checker := NewChecker(store)

	if !checker.IsOwner(context.Background(), ResourceCampaigns, "c1", "user-1") {
		t.Fatal("expected owner match")
	}
	if checker.IsOwner(context.Background(), ResourceCampaigns, "c1", "user-2") {
		t.Fatal("expected owner mismatch")
	}
}

func TestIsOwnerMissingRow(t *testing.T) {
	checker := NewChecker(&stubOwnershipStore{})
	if checker.IsOwner(context.Background(), ResourceDonations, "gone", "user-1") {
		t.Fatal("missing row must not be owned")
	}
}

func TestIsOwnerUnrecognizedResourceSkipsStore(t *testing.T) {
	store := &stubOwnershipStore{}
	checker := NewChecker(store)

	for _, resource := range []Resource{ResourceProfiles, ResourceUsers, ResourceAuditLogs, Resource("projects")} {
		if checker.IsOwner(context.Background(), resource, "x1", "user-1") {
			t.Fatalf("resource %s must fail closed", resource)
		}
	}
	if store.calls != 0 {
		t.Fatalf("store queried %d times for unowned resources", store.calls)
	}
}

func TestIsOwnerStoreFailureDenies(t *testing.T) {
	store := &stubOwnershipStore{
		ownerFn: func(_ context.Context, _ Resource, _ string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	checker := NewChecker(store)
	if checker.IsOwner(context.Background(), ResourceOrganizations, "o1", "user-1") {
		t.Fatal("store failure must resolve to deny")
	}
}

func TestIsOwnerBlankInputs(t *testing.T) {
	store := &stubOwnershipStore{}
	checker := NewChecker(store)
	if checker.IsOwner(context.Background(), ResourceCampaigns, "", "user-1") {
		t.Fatal("blank id must be denied")
	}
	if checker.IsOwner(context.Background(), ResourceCampaigns, "c1", " ") {
		t.Fatal("blank actor must be denied")
	}
	if store.calls != 0 {
		t.Fatal("store must not be queried for blank inputs")
	}
}
