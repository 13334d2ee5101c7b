// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
)

// Price types and render zones.
const (
	PriceWishlistConfigured = "wishlist_configured_price"
	PriceFinal              = "final_price"

	ZoneItemList = "item_list"
	ZoneItemView = "item_view"
)

// SelectionResolver resolves the products behind a wishlist item.
type SelectionResolver interface {
	Resolve(ctx context.Context, item *models.WishlistItem) (*Selection, error)
}

// PriceRenderer renders price boxes as HTML fragments.
type PriceRenderer struct {
	unit     currency.Unit
	resolver SelectionResolver
}

// NewPriceRenderer creates a PriceRenderer for an ISO 4217 currency code.
func NewPriceRenderer(code string, resolver SelectionResolver) (*PriceRenderer, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return &PriceRenderer{unit: unit, resolver: resolver}, nil
}

// ProductPriceHTML renders the price box of product. For configured wishlist
// prices the item, when given, selects the product the price is taken from.
func (r *PriceRenderer) ProductPriceHTML(ctx context.Context, product *models.Product, priceType, zone string, item *models.WishlistItem) (string, error) {
	sel := &Selection{Product: product}
	if priceType == PriceWishlistConfigured && item != nil && r.resolver != nil {
		resolved, err := r.resolver.Resolve(ctx, item)
		if err != nil {
			return "", fmt.Errorf("resolving priced product: %w", err)
		}
		sel = resolved
	}
	return r.SelectionPriceHTML(ctx, sel, priceType, zone)
}

// SelectionPriceHTML renders the price box of an already resolved item.
// Configured wishlist prices come from the selected child.
func (r *PriceRenderer) SelectionPriceHTML(ctx context.Context, sel *Selection, priceType, zone string) (string, error) {
	priced := sel.Product
	if priceType == PriceWishlistConfigured {
		priced = sel.Priced()
	}

	var sb strings.Builder
	if err := r.PriceBox(sel.Product.ID, priced, priceType, zone).Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type priceBoxView struct {
	ProductID  int64
	PriceType  string
	Zone       string
	Final      float64
	Old        float64
	HasSpecial bool
}

// PriceBox returns the price box component. productID identifies the box on the page.
func (r *PriceRenderer) PriceBox(productID int64, priced *models.Product, priceType, zone string) templ.Component {
	final := priced.FinalPrice()
	return priceBox(r, priceBoxView{
		ProductID:  productID,
		PriceType:  priceType,
		Zone:       zone,
		Final:      final,
		Old:        priced.Price,
		HasSpecial: final < priced.Price,
	})
}

// Format formats amount in the renderer's currency for the locale in ctx.
func (r *PriceRenderer) Format(ctx context.Context, amount float64) string {
	p := message.NewPrinter(language.Make(i18n.GetLocale(ctx)))
	scale, _ := currency.Standard.Rounding(r.unit)
	symbol := p.Sprint(currency.Symbol(r.unit))
	return symbol + p.Sprintf(fmt.Sprintf("%%.%df", scale), amount)
}
