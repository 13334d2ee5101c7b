// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
)

// ReviewSummary aggregates the approved reviews of a product.
type ReviewSummary struct {
	ProductID     int64 `db:"product_id"`
	ReviewsCount  int   `db:"reviews_count"`
	RatingSummary int   `db:"rating_summary"`
}

// GetReviewSummary returns the summary row for a product.
func (r *Repository) GetReviewSummary(ctx context.Context, productID int64) (*ReviewSummary, error) {
	var summary ReviewSummary
	err := r.db.GetContext(ctx, &summary,
		`SELECT product_id, reviews_count, rating_summary FROM review_summaries WHERE product_id = ?`, productID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &summary, nil
}

// SaveReviewSummary inserts or replaces the summary row for a product.
func (r *Repository) SaveReviewSummary(ctx context.Context, summary *ReviewSummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_summaries (product_id, reviews_count, rating_summary) VALUES (?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET reviews_count = excluded.reviews_count, rating_summary = excluded.rating_summary`,
		summary.ProductID, summary.ReviewsCount, summary.RatingSummary)
	return err
}
