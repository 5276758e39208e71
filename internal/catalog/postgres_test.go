package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/carbonlabs/carbon-backend/pkg/db"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(conn))
	return conn
}

func TestPostgresStoreCreateAndGet(t *testing.T) {
	store := NewPostgresStore(setupCatalogTestDB(t))
	ctx := context.Background()

	product := Product{
		ID:          "ignored-token",
		ProductName: "Tee",
		Description: "Organic cotton",
		Range:       "45",
		Index:       1,
		ImgURL:      "https://cdn.example/tee.png",
	}
	require.NoError(t, store.Create(ctx, &product))
	require.NotEmpty(t, product.ID)
	assert.NotEqual(t, "ignored-token", product.ID, "relational backend assigns its own id")

	got, err := store.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product, *got)
}

func TestPostgresStoreGetByIDNotFound(t *testing.T) {
	store := NewPostgresStore(setupCatalogTestDB(t))
	ctx := context.Background()

	_, err := store.GetByID(ctx, "9999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreListAll(t *testing.T) {
	store := NewPostgresStore(setupCatalogTestDB(t))
	ctx := context.Background()

	products, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	for i := 1; i <= 3; i++ {
		p := Product{ProductName: fmt.Sprintf("Item %d", i), Range: "10", Index: i}
		require.NoError(t, store.Create(ctx, &p))
	}

	products, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	names := []string{products[0].ProductName, products[1].ProductName, products[2].ProductName}
	assert.Contains(t, names, "Item 1")
	assert.Contains(t, names, "Item 3")
}

func TestPostgresStoreDuplicateIndex(t *testing.T) {
	store := NewPostgresStore(setupCatalogTestDB(t))
	ctx := context.Background()

	first := Product{ProductName: "First", Range: "10", Index: 7}
	require.NoError(t, store.Create(ctx, &first))

	dup := Product{ProductName: "Second", Range: "20", Index: 7}
	err := store.Create(ctx, &dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""), "expected a unique violation, got %v", err)

	got, err := store.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.ProductName, "existing record must be untouched")
}
