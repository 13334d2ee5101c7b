// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package wishlist

import (
	"context"
	"fmt"
	"strconv"

	"codeberg.org/oliverandrich/go-wishlist/internal/catalog"
	"codeberg.org/oliverandrich/go-wishlist/internal/customerdata"
	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/metrics"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
)

// SidebarItemsNumber caps the items shown in the sidebar.
const SidebarItemsNumber = 3

// ImageTemplate is the client-side template the sidebar image is rendered with.
const ImageTemplate = "catalog/product/image_with_borders"

// CustomerSession receives the visitor's customer ID.
type CustomerSession interface {
	SetCustomerID(id int64)
}

// ItemSource counts and lists wishlist items and builds their links.
type ItemSource interface {
	ItemCount(ctx context.Context, customerID int64) (int, error)
	ItemCollection(ctx context.Context, customerID int64, filter repository.ItemFilter) ([]*models.WishlistItem, error)
	ProductURL(item *models.WishlistItem) string
	AddToCartParams(item *models.WishlistItem) (string, error)
	RemoveParams(item *models.WishlistItem) (string, error)
}

// ImageRenderer prepares product images.
type ImageRenderer interface {
	Init(p *models.Product, imageID string) catalog.Image
}

// PriceRenderer renders price HTML for a resolved item.
type PriceRenderer interface {
	SelectionPriceHTML(ctx context.Context, sel *catalog.Selection, priceType, zone string) (string, error)
}

// RatingLoader loads review rating summaries.
type RatingLoader interface {
	RatingSummary(ctx context.Context, productID int64) (int, error)
}

// ItemResolver resolves the products behind an item.
type ItemResolver interface {
	Resolve(ctx context.Context, item *models.WishlistItem) (*catalog.Selection, error)
}

// Section is the wishlist sidebar payload.
type Section struct {
	Counter *string       `json:"counter"`
	Items   []ItemSummary `json:"items"`
}

// ImageData describes the sidebar image of an item.
type ImageData struct {
	Template string `json:"template"`
	Src      string `json:"src"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Alt      string `json:"alt"`
}

// ItemSummary is one item of the sidebar.
type ItemSummary struct { //nolint:govet // field order follows the payload
	Image                       ImageData `json:"image"`
	ProductSKU                  string    `json:"product_sku"`
	ProductID                   int64     `json:"product_id"`
	ProductURL                  string    `json:"product_url"`
	ProductName                 string    `json:"product_name"`
	ReviewRatingSummary         string    `json:"review_rating_summary"`
	ProductBaseURL              string    `json:"productBaseUrl"`
	ProductPrice                string    `json:"product_price"`
	ProductIsSaleableAndVisible bool      `json:"product_is_saleable_and_visible"`
	ProductHasRequiredOptions   bool      `json:"product_has_required_options"`
	AddToCartParams             string    `json:"add_to_cart_params"`
	DeleteItemParams            string    `json:"delete_item_params"`
}

// Sidebar assembles the wishlist sidebar payload.
type Sidebar struct {
	items    ItemSource
	images   ImageRenderer
	prices   PriceRenderer
	ratings  RatingLoader
	resolver ItemResolver
}

// NewSidebar creates a Sidebar. All collaborators are required.
func NewSidebar(items ItemSource, images ImageRenderer, prices PriceRenderer, ratings RatingLoader, resolver ItemResolver) *Sidebar {
	return &Sidebar{
		items:    items,
		images:   images,
		prices:   prices,
		ratings:  ratings,
		resolver: resolver,
	}
}

// SectionData syncs the visitor's customer ID into the session and returns
// the counter label with up to SidebarItemsNumber recently added in-stock items.
func (s *Sidebar) SectionData(ctx context.Context, v *visitor.Context, sess CustomerSession) (*Section, error) {
	customerID := v.CustomerID()
	sess.SetCustomerID(customerID)

	count, err := s.items.ItemCount(ctx, customerID)
	if err != nil {
		return nil, err
	}

	section := &Section{
		Counter: CounterLabel(ctx, count),
		Items:   []ItemSummary{},
	}
	if section.Counter == nil {
		metrics.SidebarItems.Observe(0)
		return section, nil
	}

	items, err := s.items.ItemCollection(ctx, customerID, repository.ItemFilter{
		PageSize:    SidebarItemsNumber,
		InStockOnly: true,
		Order:       repository.OrderAddedAt,
	})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		summary, err := s.itemData(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("wishlist item %d: %w", item.ID, err)
		}
		section.Items = append(section.Items, summary)
	}
	metrics.SidebarItems.Observe(float64(len(section.Items)))

	return section, nil
}

// Plugin replaces the plain wishlist section with the sidebar payload.
func (s *Sidebar) Plugin() customerdata.Plugin {
	return func(_ customerdata.Source) customerdata.Source {
		return customerdata.SourceFunc(func(ctx context.Context, req *customerdata.Request) (any, error) {
			return s.SectionData(ctx, req.Visitor, req.Session)
		})
	}
}

func (s *Sidebar) itemData(ctx context.Context, item *models.WishlistItem) (ItemSummary, error) {
	product := item.Product
	if product == nil {
		return ItemSummary{}, fmt.Errorf("product %d not loaded", item.ProductID)
	}

	sel, err := s.resolver.Resolve(ctx, item)
	if err != nil {
		return ItemSummary{}, err
	}

	rating, err := s.ratings.RatingSummary(ctx, product.ID)
	if err != nil {
		return ItemSummary{}, fmt.Errorf("loading rating summary: %w", err)
	}

	price, err := s.prices.SelectionPriceHTML(ctx, sel, catalog.PriceWishlistConfigured, catalog.ZoneItemList)
	if err != nil {
		return ItemSummary{}, fmt.Errorf("rendering price: %w", err)
	}

	addToCart, err := s.items.AddToCartParams(item)
	if err != nil {
		return ItemSummary{}, err
	}
	remove, err := s.items.RemoveParams(item)
	if err != nil {
		return ItemSummary{}, err
	}

	img := s.images.Init(sel.Visual(), catalog.ImageWishlistSidebar)

	return ItemSummary{
		Image: ImageData{
			Template: ImageTemplate,
			Src:      img.URL,
			Width:    img.Width,
			Height:   img.Height,
			Alt:      img.Label,
		},
		ProductSKU:                  product.SKU,
		ProductID:                   product.ID,
		ProductURL:                  s.items.ProductURL(item),
		ProductName:                 product.Name,
		ReviewRatingSummary:         strconv.Itoa(rating) + "%",
		ProductBaseURL:              s.images.Init(product, catalog.ImageProductBase).URL,
		ProductPrice:                price,
		ProductIsSaleableAndVisible: product.IsSaleable() && product.IsVisibleInSiteVisibility(),
		ProductHasRequiredOptions:   product.HasRequiredOptions,
		AddToCartParams:             addToCart,
		DeleteItemParams:            remove,
	}, nil
}

// CounterLabel returns the localised counter for count items, nil for an empty wishlist.
func CounterLabel(ctx context.Context, count int) *string {
	var label string
	switch {
	case count > 1:
		label = i18n.TPlural(ctx, "wishlist_counter_items", count)
	case count == 1:
		label = i18n.T(ctx, "wishlist_counter_single")
	default:
		return nil
	}
	return &label
}
