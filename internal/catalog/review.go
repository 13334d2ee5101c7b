// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package catalog

import (
	"context"
	"errors"

	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
)

// SummaryStore loads aggregated review data.
type SummaryStore interface {
	GetReviewSummary(ctx context.Context, productID int64) (*repository.ReviewSummary, error)
}

// Reviews exposes review summaries of products.
type Reviews struct {
	store SummaryStore
}

// NewReviews creates a Reviews service.
func NewReviews(store SummaryStore) *Reviews {
	return &Reviews{store: store}
}

// RatingSummary returns the rating summary in percent, 0 for products without reviews.
func (r *Reviews) RatingSummary(ctx context.Context, productID int64) (int, error) {
	summary, err := r.store.GetReviewSummary(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return summary.RatingSummary, nil
}
