// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package wishlist assembles the storefront views of a customer's wishlist.
package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/urlbuilder"
)

// Routes the helper links to.
const (
	RouteConfigure = "wishlist/index/configure"
	RouteCart      = "wishlist/index/cart"
	RouteRemove    = "wishlist/index/remove"
	RouteIndex     = "wishlist"
	RouteLogin     = "customer/account/login"
)

// Store is the wishlist storage the helper reads from.
type Store interface {
	CountWishlistItems(ctx context.Context, customerID int64) (int, error)
	SumWishlistQty(ctx context.Context, customerID int64) (float64, error)
	ListWishlistItems(ctx context.Context, customerID int64, filter repository.ItemFilter) ([]*models.WishlistItem, error)
}

// PostData is the parameter bundle client-side scripts post to an action.
type PostData struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data"`
}

// Helper answers wishlist questions for the current customer.
type Helper struct {
	store  Store
	urls   *urlbuilder.Builder
	useQty bool
}

// NewHelper creates a Helper.
func NewHelper(store Store, urls *urlbuilder.Builder, cfg config.WishlistConfig) *Helper {
	return &Helper{store: store, urls: urls, useQty: cfg.CounterUseQty}
}

// ItemCount returns the number of wishlist lines, or the summed quantity
// when the counter is configured to use quantities.
func (h *Helper) ItemCount(ctx context.Context, customerID int64) (int, error) {
	if customerID == 0 {
		return 0, nil
	}
	if h.useQty {
		qty, err := h.store.SumWishlistQty(ctx, customerID)
		if err != nil {
			return 0, fmt.Errorf("summing wishlist qty: %w", err)
		}
		return int(math.Round(qty)), nil
	}
	n, err := h.store.CountWishlistItems(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("counting wishlist items: %w", err)
	}
	return n, nil
}

// ItemCollection lists the customer's items. Every call starts from a fresh
// query, so no filter of a previous call carries over.
func (h *Helper) ItemCollection(ctx context.Context, customerID int64, filter repository.ItemFilter) ([]*models.WishlistItem, error) {
	if customerID == 0 {
		return []*models.WishlistItem{}, nil
	}
	items, err := h.store.ListWishlistItems(ctx, customerID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist items: %w", err)
	}
	return items, nil
}

// ProductURL returns the storefront URL of the item's product.
func (h *Helper) ProductURL(item *models.WishlistItem) string {
	if item.Product == nil || item.Product.URLKey == "" {
		return h.urls.URL(fmt.Sprintf("catalog/product/view/id/%d", item.ProductID), nil)
	}
	return h.urls.URL(item.Product.URLKey+".html", nil)
}

// AddToCartParams returns the post data that moves the item into the cart.
func (h *Helper) AddToCartParams(item *models.WishlistItem) (string, error) {
	return postData(h.urls.URL(RouteCart, nil), map[string]any{
		"item": item.ID,
		"qty":  item.Qty,
	})
}

// RemoveParams returns the post data that removes the item from the wishlist.
func (h *Helper) RemoveParams(item *models.WishlistItem) (string, error) {
	return postData(h.urls.URL(RouteRemove, nil), map[string]any{
		"item": item.ID,
	})
}

// WishlistURL returns the wishlist page URL.
func (h *Helper) WishlistURL() string {
	return h.urls.URL(RouteIndex, nil)
}

// LoginURL returns the login page URL.
func (h *Helper) LoginURL() string {
	return h.urls.URL(RouteLogin, nil)
}

func postData(action string, data map[string]any) (string, error) {
	b, err := json.Marshal(PostData{Action: action, Data: data})
	if err != nil {
		return "", fmt.Errorf("encoding post data: %w", err)
	}
	return string(b), nil
}
