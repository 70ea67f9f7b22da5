package entitlement

import (
	"testing"
	"time"

	"github.com/MyResellApp/MyResell/internal/plans"
	"github.com/MyResellApp/MyResell/internal/session"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
)

func snapshotWithPlan(name string, endDate *time.Time) *session.Snapshot {
	return &session.Snapshot{
		Subscription: &subscriptions.SubscriptionDTO{
			EndDate: endDate,
			Plan:    &plans.PlanDTO{Name: name},
		},
	}
}

func TestParseTier(t *testing.T) {
	cases := map[string]Tier{
		"basic":   TierBasic,
		"Basic":   TierBasic,
		" PRO ":   TierPro,
		"premium": TierPremium,
		"gold":    TierNone,
		"":        TierNone,
	}
	for input, want := range cases {
		if got := ParseTier(input); got != want {
			t.Errorf("ParseTier(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsEntitledTierOrdering(t *testing.T) {
	now := time.Now()
	cases := []struct {
		plan     string
		required Tier
		want     bool
	}{
		{"basic", TierBasic, true},
		{"basic", TierPro, false},
		{"basic", TierPremium, false},
		{"pro", TierBasic, true},
		{"pro", TierPro, true},
		{"pro", TierPremium, false},
		{"premium", TierBasic, true},
		{"premium", TierPro, true},
		{"premium", TierPremium, true},
		{"unknown", TierBasic, false},
	}
	for _, tc := range cases {
		snapshot := snapshotWithPlan(tc.plan, nil)
		if got := IsEntitled(snapshot, tc.required, now); got != tc.want {
			t.Errorf("IsEntitled(%s, %v) = %v, want %v", tc.plan, tc.required, got, tc.want)
		}
	}
}

func TestIsEntitledWithoutSubscription(t *testing.T) {
	now := time.Now()
	if IsEntitled(nil, TierBasic, now) {
		t.Fatal("nil snapshot should never be entitled")
	}
	if IsEntitled(&session.Snapshot{}, TierBasic, now) {
		t.Fatal("snapshot without subscription should not be entitled")
	}
	if !IsEntitled(nil, TierNone, now) {
		t.Fatal("TierNone requires nothing")
	}
}

func TestIsEntitledExpiredSubscription(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if IsEntitled(snapshotWithPlan("pro", &past), TierPro, now) {
		t.Fatal("expired subscription should not be entitled")
	}
	if !IsEntitled(snapshotWithPlan("pro", &future), TierPro, now) {
		t.Fatal("future end date should stay entitled")
	}
}
