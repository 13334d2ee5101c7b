// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package catalog renders product media, prices and review data for storefront payloads.
package catalog

import (
	"fmt"
	"strings"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
)

// Image IDs known to the image helper.
const (
	ImageWishlistSidebar = "wishlist_sidebar_block"
	ImageProductBase     = "product_base_image"
)

// ImageSize is the rendered size of an image ID.
type ImageSize struct {
	Width  int
	Height int
}

// DefaultImageSizes are the sizes used when no override is configured.
var DefaultImageSizes = map[string]ImageSize{
	ImageWishlistSidebar: {Width: 75, Height: 90},
	ImageProductBase:     {Width: 240, Height: 300},
}

// Image describes a product image prepared for a specific image ID.
type Image struct {
	URL    string
	Width  int
	Height int
	Label  string
}

// ImageHelper resolves product images against the media base URL.
type ImageHelper struct {
	mediaBaseURL string
	sizes        map[string]ImageSize
}

// NewImageHelper creates an ImageHelper with DefaultImageSizes.
func NewImageHelper(mediaBaseURL string) *ImageHelper {
	return &ImageHelper{
		mediaBaseURL: strings.TrimSuffix(mediaBaseURL, "/"),
		sizes:        DefaultImageSizes,
	}
}

// Init prepares the product's image for imageID. Products without an image
// get the placeholder of that image ID.
func (h *ImageHelper) Init(p *models.Product, imageID string) Image {
	size := h.sizes[imageID]

	label := p.ImageLabel
	if label == "" {
		label = p.Name
	}

	var url string
	if p.Image == "" {
		url = fmt.Sprintf("%s/catalog/product/placeholder/%s.jpg", h.mediaBaseURL, imageID)
	} else {
		url = fmt.Sprintf("%s/catalog/product/cache/%dx%d/%s",
			h.mediaBaseURL, size.Width, size.Height, strings.TrimPrefix(p.Image, "/"))
	}

	return Image{
		URL:    url,
		Width:  size.Width,
		Height: size.Height,
		Label:  label,
	}
}
