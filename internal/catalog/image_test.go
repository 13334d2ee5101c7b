// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
)

func TestImageHelper_Init(t *testing.T) {
	h := NewImageHelper("https://cdn.example.com/media/")
	p := &models.Product{Name: "Red Shirt", Image: "/r/e/red.jpg"}

	img := h.Init(p, ImageWishlistSidebar)
	assert.Equal(t, "https://cdn.example.com/media/catalog/product/cache/75x90/r/e/red.jpg", img.URL)
	assert.Equal(t, 75, img.Width)
	assert.Equal(t, 90, img.Height)
	assert.Equal(t, "Red Shirt", img.Label)

	img = h.Init(p, ImageProductBase)
	assert.Equal(t, "https://cdn.example.com/media/catalog/product/cache/240x300/r/e/red.jpg", img.URL)
	assert.Equal(t, 240, img.Width)
	assert.Equal(t, 300, img.Height)
}

func TestImageHelper_Init_Label(t *testing.T) {
	h := NewImageHelper("http://localhost/media")
	img := h.Init(&models.Product{Name: "Red Shirt", Image: "/red.jpg", ImageLabel: "Front view"}, ImageWishlistSidebar)
	assert.Equal(t, "Front view", img.Label)
}

func TestImageHelper_Init_Placeholder(t *testing.T) {
	h := NewImageHelper("http://localhost/media")
	img := h.Init(&models.Product{Name: "No Image"}, ImageWishlistSidebar)
	assert.Equal(t, "http://localhost/media/catalog/product/placeholder/wishlist_sidebar_block.jpg", img.URL)
	assert.Equal(t, 75, img.Width)
}

func TestImageHelper_Init_UnknownImageID(t *testing.T) {
	h := NewImageHelper("http://localhost/media")
	img := h.Init(&models.Product{Name: "X", Image: "/x.jpg"}, "unknown")
	assert.Zero(t, img.Width)
	assert.Zero(t, img.Height)
}
