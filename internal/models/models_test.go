// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"database/sql"
	"testing"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_FullName(t *testing.T) {
	tests := []struct {
		customer models.Customer
		expected string
	}{
		{models.Customer{Firstname: "Jane", Lastname: "Doe"}, "Jane Doe"},
		{models.Customer{Firstname: "Jane"}, "Jane"},
		{models.Customer{Lastname: "Doe"}, "Doe"},
		{models.Customer{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.customer.FullName())
		})
	}
}

func TestProduct_IsSaleable(t *testing.T) {
	assert.True(t, (&models.Product{Enabled: true, IsInStock: true}).IsSaleable())
	assert.False(t, (&models.Product{Enabled: false, IsInStock: true}).IsSaleable())
	assert.False(t, (&models.Product{Enabled: true, IsInStock: false}).IsSaleable())
}

func TestProduct_IsVisibleInSiteVisibility(t *testing.T) {
	tests := []struct {
		visibility int
		expected   bool
	}{
		{models.VisibilityNotVisible, false},
		{models.VisibilityInCatalog, true},
		{models.VisibilityInSearch, true},
		{models.VisibilityBoth, true},
		{0, false},
	}

	for _, tt := range tests {
		p := &models.Product{Visibility: tt.visibility}
		assert.Equal(t, tt.expected, p.IsVisibleInSiteVisibility(), "visibility %d", tt.visibility)
	}
}

func TestProduct_FinalPrice(t *testing.T) {
	assert.InDelta(t, 20.0, (&models.Product{Price: 20}).FinalPrice(), 0.001)
	assert.InDelta(t, 15.0, (&models.Product{Price: 20, SpecialPrice: sql.NullFloat64{Float64: 15, Valid: true}}).FinalPrice(), 0.001)
	assert.InDelta(t, 20.0, (&models.Product{Price: 20, SpecialPrice: sql.NullFloat64{Float64: 25, Valid: true}}).FinalPrice(), 0.001)
}

func TestWishlistItem_OrderOptions(t *testing.T) {
	item := &models.WishlistItem{
		ID: 7,
		Options: []*models.ItemOption{
			{Code: models.OptionBuyRequest, Value: `{"qty":1,"super_attribute":{"61":"56"}}`},
			{Code: models.OptionSimpleProduct, Value: `12`},
			{Code: "attributes", Value: `{"color":"red"}`},
		},
	}

	entries, err := item.OrderOptions()

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{"61": "56"}, entries[0]["super_attribute"])
	assert.Equal(t, "red", entries[1]["color"])
}

func TestWishlistItem_OrderOptions_Empty(t *testing.T) {
	entries, err := (&models.WishlistItem{}).OrderOptions()

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWishlistItem_OrderOptions_Malformed(t *testing.T) {
	item := &models.WishlistItem{
		Options: []*models.ItemOption{{Code: models.OptionBuyRequest, Value: `{"qty":`}},
	}

	_, err := item.OrderOptions()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "info_buyRequest")
}

func TestWishlistItem_Option(t *testing.T) {
	item := &models.WishlistItem{
		Options: []*models.ItemOption{{Code: models.OptionSimpleProduct, Value: "12"}},
	}

	require.NotNil(t, item.Option(models.OptionSimpleProduct))
	assert.Equal(t, "12", item.Option(models.OptionSimpleProduct).Value)
	assert.Nil(t, item.Option(models.OptionBuyRequest))
}
