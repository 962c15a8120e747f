package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"garage/internal/model"
	"garage/internal/testutil"
)

func seedItems(t *testing.T, repo ItemRepository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Create(ctx, &model.Item{
			Name:     fmt.Sprintf("item-%03d", i),
			Category: model.ItemCategoryPart,
			Price:    decimal.NewFromInt(int64(i)),
			Quantity: i,
		}))
	}
}

func TestItemRepository_CRUD(t *testing.T) {
	repo := NewItemRepository(testutil.OpenDB(t))
	ctx := context.Background()

	item := &model.Item{
		Name:        "Brake pad",
		Description: "Front axle",
		Category:    model.ItemCategoryPart,
		Price:       decimal.RequireFromString("49.90"),
		Quantity:    4,
	}
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brake pad", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("49.9")), "price %s", got.Price)

	got.Quantity = 0
	got.Description = ""
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, "", updated.Description)

	byName, err := repo.FindByName(ctx, "Brake pad")
	require.NoError(t, err)
	assert.Equal(t, item.ID, byName.ID)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestItemRepository_UpdateDeletedItem(t *testing.T) {
	repo := NewItemRepository(testutil.OpenDB(t))
	ctx := context.Background()
	seedItems(t, repo, 1)

	stale, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, stale.ID))

	stale.Name = "renamed"
	assert.ErrorIs(t, repo.Update(ctx, stale), gorm.ErrRecordNotFound)

	_, err = repo.FindByID(ctx, stale.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	items, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepository_DeleteMissingLeavesStoreUnchanged(t *testing.T) {
	repo := NewItemRepository(testutil.OpenDB(t))
	ctx := context.Background()
	seedItems(t, repo, 3)

	assert.ErrorIs(t, repo.Delete(ctx, 999), gorm.ErrRecordNotFound)

	items, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestItemRepository_List(t *testing.T) {
	repo := NewItemRepository(testutil.OpenDB(t))
	ctx := context.Background()
	seedItems(t, repo, 120)

	page, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, page, 100)
	assert.Equal(t, "item-001", page[0].Name)

	tail, err := repo.List(ctx, 100, 100)
	require.NoError(t, err)
	assert.Len(t, tail, 20)
	assert.Equal(t, "item-101", tail[0].Name)

	empty, err := repo.List(ctx, 500, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
