package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/bistro-api/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Item{}, &models.ItemType{}, &models.Order{}, &models.User{}))
	return db
}

func TestGormCollection_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	items := NewGormCollection[models.Item](openTestDB(t))

	id, err := items.Create(ctx, &models.Item{
		Name:     "Margherita",
		Type:     "pizza",
		Price:    decimal.RequireFromString("9.50"),
		Quantity: 4,
		Ingredients: []models.Ingredient{
			{Name: "Basil", Quantity: "5 leaves"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := items.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Margherita", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("9.5")))
	assert.Equal(t, 4, got.Quantity)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Basil", got.Ingredients[0].Name)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGormCollection_GetMissing(t *testing.T) {
	items := NewGormCollection[models.Item](openTestDB(t))

	_, err := items.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormCollection_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	types := NewGormCollection[models.ItemType](openTestDB(t))

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"Starters", "Mains", "Desserts"} {
		_, err := types.Create(ctx, &models.ItemType{Name: name, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	all, err := types.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Desserts", all[0].Name)
	assert.Equal(t, "Starters", all[2].Name)
}

func TestGormCollection_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	items := NewGormCollection[models.Item](openTestDB(t))

	id, err := items.Create(ctx, &models.Item{Name: "Soup", Type: "starter", Price: decimal.NewFromInt(4), Quantity: 10})
	require.NoError(t, err)
	before, err := items.GetByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, items.Update(ctx, id, map[string]any{"quantity": 7}))

	after, err := items.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7, after.Quantity)
	assert.Equal(t, "Soup", after.Name)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))

	assert.ErrorIs(t, items.Update(ctx, "missing", map[string]any{"quantity": 1}), ErrNotFound)
}

func TestGormCollection_Delete(t *testing.T) {
	ctx := context.Background()
	orders := NewGormCollection[models.Order](openTestDB(t))

	id, err := orders.Create(ctx, &models.Order{ItemID: "x", Quantity: 1})
	require.NoError(t, err)

	got, err := orders.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)

	require.NoError(t, orders.Delete(ctx, id))
	assert.ErrorIs(t, orders.Delete(ctx, id), ErrNotFound)
}

func TestUsers_FindByEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(openTestDB(t))

	_, err := users.Create(ctx, &models.User{Username: "chef", Email: "chef@example.com", Password: "hash"})
	require.NoError(t, err)

	u, err := users.FindByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	assert.Equal(t, "chef", u.Username)
	assert.Equal(t, models.RoleCustomer, u.Role)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
