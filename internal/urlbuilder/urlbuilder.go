// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package urlbuilder builds absolute storefront URLs.
package urlbuilder

import (
	"net/url"
	"strings"
)

// Builder joins routes onto the configured base URL.
type Builder struct {
	baseURL string
}

// New creates a Builder for the given base URL.
func New(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// BaseURL returns the base URL without trailing slash.
func (b *Builder) BaseURL() string {
	return b.baseURL
}

// URL returns the absolute URL of route with params as query string.
func (b *Builder) URL(route string, params url.Values) string {
	u := b.baseURL + "/" + strings.Trim(route, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
