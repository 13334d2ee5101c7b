// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package customerdata

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
)

// CustomerLoader loads customers by ID.
type CustomerLoader interface {
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
}

// CustomerSection is the payload of the customer section.
type CustomerSection struct {
	Fullname  string `json:"fullname,omitempty"`
	Firstname string `json:"firstname,omitempty"`
}

// NewCustomerSource returns the source of the customer section. Guests and
// customers that no longer exist get an empty section.
func NewCustomerSource(customers CustomerLoader) Source {
	return SourceFunc(func(ctx context.Context, req *Request) (any, error) {
		id := req.Visitor.CustomerID()
		if id == 0 {
			return &CustomerSection{}, nil
		}
		c, err := customers.GetCustomerByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return &CustomerSection{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("loading customer: %w", err)
		}
		return &CustomerSection{Fullname: c.FullName(), Firstname: c.Firstname}, nil
	})
}

// ItemCounter counts a customer's wishlist items.
type ItemCounter interface {
	ItemCount(ctx context.Context, customerID int64) (int, error)
}

// WishlistSection is the payload of the plain wishlist section.
type WishlistSection struct {
	Counter int   `json:"counter"`
	Items   []any `json:"items"`
}

// NewWishlistSource returns the undecorated wishlist section, which only
// carries the item count.
func NewWishlistSource(counter ItemCounter) Source {
	return SourceFunc(func(ctx context.Context, req *Request) (any, error) {
		n, err := counter.ItemCount(ctx, req.Visitor.CustomerID())
		if err != nil {
			return nil, err
		}
		return &WishlistSection{Counter: n, Items: []any{}}, nil
	})
}
