// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql"
)

// Product types.
const (
	TypeSimple       = "simple"
	TypeConfigurable = "configurable"
	TypeBundle       = "bundle"
	TypeVirtual      = "virtual"
)

// Product visibility values.
const (
	VisibilityNotVisible = 1
	VisibilityInCatalog  = 2
	VisibilityInSearch   = 3
	VisibilityBoth       = 4
)

// Product is a catalog entry referenced by wishlist items.
type Product struct { //nolint:govet // fieldalignment not critical for models
	ID                 int64           `db:"id"`
	ParentID           sql.NullInt64   `db:"parent_id"`
	SKU                string          `db:"sku"`
	Name               string          `db:"name"`
	TypeID             string          `db:"type_id"`
	URLKey             string          `db:"url_key"`
	Price              float64         `db:"price"`
	SpecialPrice       sql.NullFloat64 `db:"special_price"`
	Image              string          `db:"image"`
	ImageLabel         string          `db:"image_label"`
	Visibility         int             `db:"visibility"`
	Enabled            bool            `db:"enabled"`
	IsInStock          bool            `db:"is_in_stock"`
	HasRequiredOptions bool            `db:"has_required_options"`
}

// IsSaleable reports whether the product can currently be bought.
func (p *Product) IsSaleable() bool {
	return p.Enabled && p.IsInStock
}

// IsVisibleInSiteVisibility reports whether the product is listed in the catalog or search.
func (p *Product) IsVisibleInSiteVisibility() bool {
	switch p.Visibility {
	case VisibilityInCatalog, VisibilityInSearch, VisibilityBoth:
		return true
	}
	return false
}

// FinalPrice is the lower of the regular and special price.
func (p *Product) FinalPrice() float64 {
	if p.SpecialPrice.Valid && p.SpecialPrice.Float64 < p.Price {
		return p.SpecialPrice.Float64
	}
	return p.Price
}

// IsConfigurable reports whether attribute selection is needed before purchase.
func (p *Product) IsConfigurable() bool {
	return p.TypeID == TypeConfigurable
}
