package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MyResellApp/MyResell/internal/admin"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/internal/users"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

type fixture struct {
	store *Store
	db    *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	tables := []any{&models.User{}, &models.Plan{}, &models.Subscription{}, &models.AdminUser{}}
	if err := conn.AutoMigrate(tables...); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	store, err := NewStore(StoreParams{
		Users:         users.NewRepository(conn),
		Subscriptions: subscriptions.NewRepository(conn),
		Admins:        admin.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return &fixture{store: store, db: conn}
}

func (f *fixture) seedUser(t *testing.T, active bool) uuid.UUID {
	t.Helper()
	user := &models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		IsActive:     active,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func (f *fixture) seedSubscription(t *testing.T, userID uuid.UUID, planName string, status enums.SubscriptionStatus) {
	t.Helper()
	plan := &models.Plan{Name: planName, Price: decimal.NewFromInt(9), Currency: "usd"}
	if err := f.db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	sub := &models.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    status,
		StartDate: time.Now().UTC(),
	}
	if err := f.db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}

func TestResolveWithoutSubscriptionIsNotAnError(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)

	snapshot, err := f.store.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if snapshot.User == nil || snapshot.User.ID != userID {
		t.Fatalf("expected user in snapshot")
	}
	if snapshot.HasActiveSubscription() {
		t.Fatalf("expected no subscription, got %+v", snapshot.Subscription)
	}
	if snapshot.IsAdmin {
		t.Fatalf("expected non-admin")
	}
}

func TestResolvePicksNewestActiveSubscription(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)
	f.seedSubscription(t, userID, "Basic", enums.SubscriptionStatusInactive)
	f.seedSubscription(t, userID, "Pro", enums.SubscriptionStatusActive)

	snapshot, err := f.store.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !snapshot.HasActiveSubscription() {
		t.Fatalf("expected an active subscription")
	}
	if got := snapshot.PlanName(); got != "Pro" {
		t.Fatalf("expected plan Pro, got %q", got)
	}
}

func TestResolveUnknownUserFails(t *testing.T) {
	f := newFixture(t)

	if _, err := f.store.Resolve(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestResolveDeactivatedUserFails(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, false)

	if _, err := f.store.Resolve(context.Background(), userID); err == nil {
		t.Fatal("expected error for deactivated user")
	}
}

func TestResolveCachesUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)

	ctx := context.Background()
	first, err := f.store.Resolve(ctx, userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first.HasActiveSubscription() {
		t.Fatalf("expected no subscription yet")
	}

	f.seedSubscription(t, userID, "Basic", enums.SubscriptionStatusActive)

	cached, err := f.store.Resolve(ctx, userID)
	if err != nil {
		t.Fatalf("resolve cached: %v", err)
	}
	if cached.HasActiveSubscription() {
		t.Fatalf("cached snapshot should not see the new subscription")
	}

	f.store.Invalidate(ctx, userID)

	fresh, err := f.store.Resolve(ctx, userID)
	if err != nil {
		t.Fatalf("resolve fresh: %v", err)
	}
	if !fresh.HasActiveSubscription() {
		t.Fatalf("expected subscription after invalidation")
	}
}

func TestRefreshSubscriptionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)
	f.seedSubscription(t, userID, "Premium", enums.SubscriptionStatusActive)

	ctx := context.Background()
	first, err := f.store.RefreshSubscription(ctx, userID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	second, err := f.store.RefreshSubscription(ctx, userID)
	if err != nil {
		t.Fatalf("refresh again: %v", err)
	}
	if first.PlanName() != second.PlanName() {
		t.Fatalf("refresh should converge, got %q then %q", first.PlanName(), second.PlanName())
	}
	if second.Subscription.ID != first.Subscription.ID {
		t.Fatalf("refresh should resolve the same subscription row")
	}
}

type brokenSubscriptionFinder struct{}

func (brokenSubscriptionFinder) FindActiveByUser(context.Context, uuid.UUID) (*models.Subscription, error) {
	return nil, fmt.Errorf("subscriptions table unavailable")
}

func TestResolveSurvivesSubscriptionLookupFailure(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)

	store, err := NewStore(StoreParams{
		Users:         users.NewRepository(f.db),
		Subscriptions: brokenSubscriptionFinder{},
		Admins:        admin.NewRepository(f.db),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	snapshot, err := store.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve should not surface the lookup failure: %v", err)
	}
	if snapshot.User == nil || snapshot.User.ID != userID {
		t.Fatalf("expected user in snapshot")
	}
	if snapshot.HasActiveSubscription() {
		t.Fatalf("expected empty subscription on lookup failure")
	}
}

func TestSubscribeInvalidationNotifiesListeners(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)

	var seen []uuid.UUID
	f.store.SubscribeInvalidation(func(id uuid.UUID) {
		seen = append(seen, id)
	})
	f.store.SubscribeInvalidation(nil)

	ctx := context.Background()
	if _, err := f.store.Resolve(ctx, userID); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("plain resolve should not notify, got %v", seen)
	}

	f.store.Invalidate(ctx, userID)
	if len(seen) != 1 || seen[0] != userID {
		t.Fatalf("expected one invalidation event for %s, got %v", userID, seen)
	}

	if _, err := f.store.RefreshSubscription(ctx, userID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected refresh to notify, got %v", seen)
	}
}

func TestResolveAdminFlag(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t, true)
	if err := f.db.Create(&models.AdminUser{UserID: userID}).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	snapshot, err := f.store.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !snapshot.IsAdmin {
		t.Fatalf("expected admin flag")
	}
}
