// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
)

// ProductLoader loads products by ID.
type ProductLoader interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// Selection is a wishlist item's product together with the configured
// child the customer picked, if that child still exists.
type Selection struct {
	Product *models.Product
	Child   *models.Product
}

// Visual returns the product whose image represents the item. A child
// without its own image defers to the parent.
func (s *Selection) Visual() *models.Product {
	if s.Child != nil && s.Child.Image != "" {
		return s.Child
	}
	return s.Product
}

// Priced returns the product whose price the item shows.
func (s *Selection) Priced() *models.Product {
	if s.Child != nil {
		return s.Child
	}
	return s.Product
}

// ItemResolver resolves the products behind a wishlist item.
type ItemResolver struct {
	products ProductLoader
}

// NewItemResolver creates an ItemResolver.
func NewItemResolver(products ProductLoader) *ItemResolver {
	return &ItemResolver{products: products}
}

// Resolve loads the configured child of a configurable item from its
// simple_product option.
func (r *ItemResolver) Resolve(ctx context.Context, item *models.WishlistItem) (*Selection, error) {
	parent := item.Product
	if parent == nil {
		return nil, fmt.Errorf("item %d has no product loaded", item.ID)
	}
	sel := &Selection{Product: parent}
	if !parent.IsConfigurable() {
		return sel, nil
	}

	opt := item.Option(models.OptionSimpleProduct)
	if opt == nil {
		return sel, nil
	}
	childID, err := strconv.ParseInt(strings.Trim(strings.TrimSpace(opt.Value), `"`), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid simple product option on item %d: %w", item.ID, err)
	}

	child, err := r.products.GetProductByID(ctx, childID)
	if errors.Is(err, repository.ErrNotFound) {
		return sel, nil
	}
	if err != nil {
		return nil, err
	}
	sel.Child = child
	return sel, nil
}
