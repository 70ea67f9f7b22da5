package subscriptions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

func setupSubscriptionsTestDB(t *testing.T) (*gorm.DB, *models.Plan) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Plan{}, &models.Subscription{}))

	plan := &models.Plan{
		Name:  "Pro",
		Price: decimal.RequireFromString("19.00"),
	}
	require.NoError(t, conn.Create(plan).Error)
	return conn, plan
}

func TestFindActiveByUserPrefersNewest(t *testing.T) {
	conn, plan := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	userID := uuid.New()

	old := &models.Subscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      enums.SubscriptionStatusActive,
		ProviderRef: "ref_old",
	}
	require.NoError(t, repo.Create(context.Background(), old))
	require.NoError(t, conn.Model(old).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	fresh := &models.Subscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      enums.SubscriptionStatusActive,
		ProviderRef: "ref_fresh",
	}
	require.NoError(t, repo.Create(context.Background(), fresh))

	got, err := repo.FindActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ref_fresh", got.ProviderRef)
	require.NotNil(t, got.Plan)
	assert.Equal(t, "Pro", got.Plan.Name)
}

func TestFindActiveByUserReturnsNilWhenAbsent(t *testing.T) {
	conn, _ := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)

	got, err := repo.FindActiveByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByProviderRef(t *testing.T) {
	conn, plan := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	userID := uuid.New()

	sub := &models.Subscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      enums.SubscriptionStatusActive,
		ProviderRef: "cs_test_abc",
	}
	require.NoError(t, repo.Create(context.Background(), sub))

	got, err := repo.FindByProviderRef(context.Background(), "cs_test_abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sub.ID, got.ID)

	missing, err := repo.FindByProviderRef(context.Background(), "cs_test_other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeactivateActiveForUserLeavesOthersAlone(t *testing.T) {
	conn, plan := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	target := uuid.New()
	bystander := uuid.New()

	future := time.Now().UTC().Add(30 * 24 * time.Hour)
	for _, userID := range []uuid.UUID{target, bystander} {
		require.NoError(t, repo.Create(context.Background(), &models.Subscription{
			UserID:  userID,
			PlanID:  plan.ID,
			Status:  enums.SubscriptionStatusActive,
			EndDate: &future,
		}))
	}

	before := time.Now().UTC()
	require.NoError(t, repo.DeactivateActiveForUser(context.Background(), target))

	gone, err := repo.FindActiveByUser(context.Background(), target)
	require.NoError(t, err)
	assert.Nil(t, gone)

	history, err := repo.ListByUser(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.SubscriptionStatusInactive, history[0].Status)
	require.NotNil(t, history[0].EndDate)
	assert.WithinRange(t, *history[0].EndDate, before.Add(-time.Second), time.Now().UTC().Add(time.Second))

	kept, err := repo.FindActiveByUser(context.Background(), bystander)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, enums.SubscriptionStatusActive, kept.Status)
	require.NotNil(t, kept.EndDate)
	assert.WithinDuration(t, future, *kept.EndDate, time.Second)
}

func TestListByUserNewestFirst(t *testing.T) {
	conn, plan := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	userID := uuid.New()

	first := &models.Subscription{
		UserID: userID,
		PlanID: plan.ID,
		Status: enums.SubscriptionStatusInactive,
	}
	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, conn.Model(first).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	second := &models.Subscription{
		UserID: userID,
		PlanID: plan.ID,
		Status: enums.SubscriptionStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), second))

	rows, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}
