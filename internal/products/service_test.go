package products

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
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func newProductsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	return svc
}

func seedCatalog(t *testing.T, conn *gorm.DB, count int, category string) {
	t.Helper()
	base := time.Now().UTC().Add(-time.Duration(count) * time.Minute)
	for i := 0; i < count; i++ {
		product := &models.Product{
			ID:       uuid.New(),
			Name:     fmt.Sprintf("%s item %d", category, i),
			Category: category,
			Price:    decimal.RequireFromString("49.99"),
			InStock:  true,
		}
		require.NoError(t, conn.Create(product).Error)
		// spread created_at so cursor ordering is deterministic
		require.NoError(t, conn.Model(product).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
}

func TestListPaginatesWithCursor(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	seedCatalog(t, conn, 5, "sneakers")

	page, err := svc.List(context.Background(), ListParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, "sneakers item 4", page.Products[0].Name)

	page2, err := svc.List(context.Background(), ListParams{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Products, 2)
	assert.Equal(t, "sneakers item 2", page2.Products[0].Name)

	page3, err := svc.List(context.Background(), ListParams{Limit: 2, Cursor: page2.NextCursor})
	require.NoError(t, err)
	require.Len(t, page3.Products, 1)
	assert.Empty(t, page3.NextCursor)
}

func TestListFiltersByCategory(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	seedCatalog(t, conn, 3, "sneakers")
	seedCatalog(t, conn, 2, "streetwear")

	page, err := svc.List(context.Background(), ListParams{Category: "streetwear", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	for _, p := range page.Products {
		assert.Equal(t, "streetwear", p.Category)
	}
}

func TestListRejectsGarbageCursor(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)

	_, err := svc.List(context.Background(), ListParams{Cursor: "not-a-cursor"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateValidatesInputs(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)

	_, err := svc.Create(context.Background(), CreateProductDTO{Name: "  "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(context.Background(), CreateProductDTO{
		Name:  "Negative",
		Price: decimal.RequireFromString("-1"),
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)

	created, err := svc.Create(context.Background(), CreateProductDTO{
		Name:     "Jordan 4",
		Category: "sneakers",
		Price:    decimal.RequireFromString("210.00"),
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("199.00")
	outOfStock := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductDTO{
		Price:   &newPrice,
		InStock: &outOfStock,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.InStock)
	assert.Equal(t, "Jordan 4", updated.Name)
}

func TestGetUnknownProductReturnsNotFound(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
