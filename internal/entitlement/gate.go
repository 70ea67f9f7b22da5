package entitlement

import (
	"strings"
	"time"

	"github.com/MyResellApp/MyResell/internal/session"
)

// Tier is an ordered entitlement level derived from the subscribed plan name.
type Tier int

const (
	TierNone Tier = iota
	TierBasic
	TierPro
	TierPremium
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierPro:
		return "pro"
	case TierPremium:
		return "premium"
	default:
		return "none"
	}
}

// ParseTier maps a plan or tier name onto a Tier. Unknown names map to
// TierNone so a mistyped plan never grants access.
func ParseTier(name string) Tier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "basic":
		return TierBasic
	case "pro":
		return TierPro
	case "premium":
		return TierPremium
	default:
		return TierNone
	}
}

// TierOf derives the entitlement tier from a resolved session snapshot.
func TierOf(snapshot *session.Snapshot, now time.Time) Tier {
	if snapshot == nil || !snapshot.HasActiveSubscription() {
		return TierNone
	}
	sub := snapshot.Subscription
	if sub.EndDate != nil && !sub.EndDate.After(now) {
		return TierNone
	}
	return ParseTier(snapshot.PlanName())
}

// IsEntitled reports whether the snapshot satisfies the required tier.
// Higher tiers include everything below them.
func IsEntitled(snapshot *session.Snapshot, required Tier, now time.Time) bool {
	if required == TierNone {
		return true
	}
	return TierOf(snapshot, now) >= required
}
