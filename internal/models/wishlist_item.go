// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Item option codes.
const (
	OptionBuyRequest    = "info_buyRequest"
	OptionSimpleProduct = "simple_product"
)

// WishlistItem is one line of a wishlist.
type WishlistItem struct { //nolint:govet // fieldalignment not critical for models
	ID          int64     `db:"id"`
	WishlistID  int64     `db:"wishlist_id"`
	ProductID   int64     `db:"product_id"`
	Qty         float64   `db:"qty"`
	Description string    `db:"description"`
	AddedAt     time.Time `db:"added_at"`

	Product *Product      `db:"-"`
	Options []*ItemOption `db:"-"`
}

// ItemOption stores how the product was configured when it was added.
type ItemOption struct {
	ID             int64  `db:"id"`
	WishlistItemID int64  `db:"wishlist_item_id"`
	ProductID      int64  `db:"product_id"`
	Code           string `db:"code"`
	Value          string `db:"value"`
}

// OrderOptions is the ordered list of option entries describing a configured item.
type OrderOptions []map[string]any

// Option returns the option with the given code, or nil.
func (i *WishlistItem) Option(code string) *ItemOption {
	for _, opt := range i.Options {
		if opt.Code == code {
			return opt
		}
	}
	return nil
}

// OrderOptions decodes the item's options into entries. Options whose value is
// not a JSON object carry no entry.
func (i *WishlistItem) OrderOptions() (OrderOptions, error) {
	var entries OrderOptions
	for _, opt := range i.Options {
		if opt.Value == "" || opt.Value[0] != '{' {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(opt.Value), &entry); err != nil {
			return nil, fmt.Errorf("decoding option %q of item %d: %w", opt.Code, i.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
