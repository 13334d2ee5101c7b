// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateWishlist(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")

	first, err := repo.GetOrCreateWishlist(ctx, customer.ID)
	require.NoError(t, err)
	second, err := repo.GetOrCreateWishlist(ctx, customer.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, first.SharingCode, 32)
	assert.False(t, first.Shared)

	byCode, err := repo.GetWishlistBySharingCode(ctx, first.SharingCode)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byCode.ID)
}

func TestMarkWishlistShared(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")
	wl, err := repo.GetOrCreateWishlist(ctx, customer.ID)
	require.NoError(t, err)

	require.NoError(t, repo.MarkWishlistShared(ctx, wl.ID))

	wl, err = repo.GetWishlistByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, wl.Shared)
}

func TestAddWishlistItem_WithOptions(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")
	product := testutil.NewTestProduct(t, repo, "MJ01", 10)

	item := testutil.NewTestItem(t, repo, customer.ID, product.ID, 0, testutil.SuperAttributeOption(`{"61":"56"}`))

	loaded, err := repo.GetWishlistItem(ctx, customer.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Product)
	assert.Equal(t, "MJ01", loaded.Product.SKU)
	require.Len(t, loaded.Options, 1)
	assert.Equal(t, models.OptionBuyRequest, loaded.Options[0].Code)
	assert.Equal(t, product.ID, loaded.Options[0].ProductID)
	assert.Equal(t, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), loaded.AddedAt.UTC())
}

func TestGetWishlistItem_OtherCustomer(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	owner := testutil.NewTestCustomer(t, repo, "jane@example.com")
	other := testutil.NewTestCustomer(t, repo, "john@example.com")
	product := testutil.NewTestProduct(t, repo, "MJ01", 10)
	item := testutil.NewTestItem(t, repo, owner.ID, product.ID, 0)

	_, err := repo.GetWishlistItem(context.Background(), other.ID, item.ID)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCountWishlistItems(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")

	count, err := repo.CountWishlistItems(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for _, sku := range []string{"A", "B", "C"} {
		p := testutil.NewTestProduct(t, repo, sku, 10)
		testutil.NewTestItem(t, repo, customer.ID, p.ID, 0)
	}

	count, err = repo.CountWishlistItems(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSumWishlistQty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")
	wl, err := repo.GetOrCreateWishlist(ctx, customer.ID)
	require.NoError(t, err)

	for i, qty := range []float64{2, 3.5} {
		p := testutil.NewTestProduct(t, repo, string(rune('A'+i)), 10)
		require.NoError(t, repo.AddWishlistItem(ctx, &models.WishlistItem{WishlistID: wl.ID, ProductID: p.ID, Qty: qty}))
	}

	sum, err := repo.SumWishlistQty(ctx, customer.ID)

	require.NoError(t, err)
	assert.InDelta(t, 5.5, sum, 0.001)
}

func TestListWishlistItems_FilterAndOrder(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")

	var skus []string
	for i := range 5 {
		sku := string(rune('A' + i))
		p := testutil.NewTestProduct(t, repo, sku, 10)
		testutil.NewTestItem(t, repo, customer.ID, p.ID, time.Duration(i)*time.Minute)
		skus = append(skus, sku)
	}
	outOfStock := testutil.NewTestProduct(t, repo, "Z", 10)
	require.NoError(t, repo.SetProductStock(ctx, outOfStock.ID, false))
	testutil.NewTestItem(t, repo, customer.ID, outOfStock.ID, time.Hour)

	items, err := repo.ListWishlistItems(ctx, customer.ID, repository.ItemFilter{
		PageSize:    3,
		InStockOnly: true,
		Order:       repository.OrderAddedAt,
	})

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "E", items[0].Product.SKU)
	assert.Equal(t, "D", items[1].Product.SKU)
	assert.Equal(t, "C", items[2].Product.SKU)
}

func TestListWishlistItems_NoFilter(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")
	a := testutil.NewTestProduct(t, repo, "A", 10)
	b := testutil.NewTestProduct(t, repo, "B", 10)
	require.NoError(t, repo.SetProductStock(ctx, b.ID, false))
	testutil.NewTestItem(t, repo, customer.ID, a.ID, time.Minute)
	testutil.NewTestItem(t, repo, customer.ID, b.ID, 0)

	items, err := repo.ListWishlistItems(ctx, customer.ID, repository.ItemFilter{})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Product.SKU)
	assert.Equal(t, "B", items[1].Product.SKU)
}

func TestListWishlistItems_UnsupportedOrder(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.ListWishlistItems(context.Background(), 1, repository.ItemFilter{Order: "name; DROP TABLE products"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported item order")
}

func TestRemoveWishlistItem(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.NewTestCustomer(t, repo, "jane@example.com")
	other := testutil.NewTestCustomer(t, repo, "john@example.com")
	product := testutil.NewTestProduct(t, repo, "MJ01", 10)
	item := testutil.NewTestItem(t, repo, owner.ID, product.ID, 0, testutil.SuperAttributeOption(`{"61":"56"}`))

	assert.ErrorIs(t, repo.RemoveWishlistItem(ctx, other.ID, item.ID), repository.ErrNotFound)
	require.NoError(t, repo.RemoveWishlistItem(ctx, owner.ID, item.ID))

	count, err := repo.CountWishlistItems(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
