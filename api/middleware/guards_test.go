package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/internal/entitlement"
	"github.com/MyResellApp/MyResell/internal/plans"
	"github.com/MyResellApp/MyResell/internal/session"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/internal/users"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

type stubResolver struct {
	snapshot *session.Snapshot
	err      error
}

func (s stubResolver) Resolve(ctx context.Context, userID uuid.UUID) (*session.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func snapshotWithPlan(planName string, admin bool) *session.Snapshot {
	userID := uuid.New()
	snap := &session.Snapshot{
		User:       &users.UserDTO{ID: userID, Email: "member@example.com", IsActive: true},
		IsAdmin:    admin,
		ResolvedAt: time.Now().UTC(),
	}
	if planName != "" {
		end := time.Now().UTC().Add(24 * time.Hour)
		snap.Subscription = &subscriptions.SubscriptionDTO{
			ID:      uuid.New(),
			UserID:  userID,
			Status:  enums.SubscriptionStatusActive,
			EndDate: &end,
			Plan:    &plans.PlanDTO{ID: uuid.New(), Name: planName},
		}
	}
	return snap
}

func guardedRequest(t *testing.T, mw func(http.Handler) http.Handler, withIdentity bool) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if withIdentity {
		req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestRequireAdminRejectsMissingIdentity(t *testing.T) {
	mw := RequireAdmin(stubResolver{snapshot: snapshotWithPlan("", true)}, nil)
	if resp := guardedRequest(t, mw, false); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	mw := RequireAdmin(stubResolver{snapshot: snapshotWithPlan("Basic", false)}, nil)
	if resp := guardedRequest(t, mw, true); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireAdminAllowsListedUser(t *testing.T) {
	mw := RequireAdmin(stubResolver{snapshot: snapshotWithPlan("", true)}, nil)
	if resp := guardedRequest(t, mw, true); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireTierRejectsUnsubscribed(t *testing.T) {
	mw := RequireTier(stubResolver{snapshot: snapshotWithPlan("", false)}, entitlement.TierBasic, nil)
	if resp := guardedRequest(t, mw, true); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireTierRejectsLowerTier(t *testing.T) {
	mw := RequireTier(stubResolver{snapshot: snapshotWithPlan("Basic", false)}, entitlement.TierPro, nil)
	if resp := guardedRequest(t, mw, true); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireTierAllowsHigherTier(t *testing.T) {
	mw := RequireTier(stubResolver{snapshot: snapshotWithPlan("Premium", false)}, entitlement.TierBasic, nil)
	if resp := guardedRequest(t, mw, true); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
