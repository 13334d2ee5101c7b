// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"github.com/google/uuid"
	"github.com/vinovest/sqlx"
)

// Item orders understood by ListWishlistItems.
const (
	OrderAddedAt = "added_at"
	OrderID      = "id"
)

// ItemFilter restricts and orders a wishlist item listing.
type ItemFilter struct {
	PageSize    int    // 0 means no limit
	InStockOnly bool   // only items whose product is in stock
	Order       string // OrderAddedAt (newest first) or OrderID
}

const wishlistColumns = `id, customer_id, sharing_code, shared, updated_at`

// GetWishlistByCustomer retrieves the wishlist of a customer.
func (r *Repository) GetWishlistByCustomer(ctx context.Context, customerID int64) (*models.Wishlist, error) {
	var wl models.Wishlist
	err := r.db.GetContext(ctx, &wl, `SELECT `+wishlistColumns+` FROM wishlists WHERE customer_id = ?`, customerID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &wl, nil
}

// GetWishlistBySharingCode retrieves a wishlist by its public sharing code.
func (r *Repository) GetWishlistBySharingCode(ctx context.Context, code string) (*models.Wishlist, error) {
	var wl models.Wishlist
	err := r.db.GetContext(ctx, &wl, `SELECT `+wishlistColumns+` FROM wishlists WHERE sharing_code = ?`, code)
	if err != nil {
		return nil, wrapError(err)
	}
	return &wl, nil
}

// GetOrCreateWishlist returns the customer's wishlist, creating it on first use.
func (r *Repository) GetOrCreateWishlist(ctx context.Context, customerID int64) (*models.Wishlist, error) {
	wl, err := r.GetWishlistByCustomer(ctx, customerID)
	if err == nil {
		return wl, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO wishlists (customer_id, sharing_code) VALUES (?, ?)`,
		customerID, strings.ReplaceAll(uuid.NewString(), "-", ""))
	if err != nil {
		return nil, err
	}
	return r.GetWishlistByCustomer(ctx, customerID)
}

// MarkWishlistShared flags a wishlist as shared.
func (r *Repository) MarkWishlistShared(ctx context.Context, wishlistID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE wishlists SET shared = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, wishlistID)
	return err
}

// AddWishlistItem adds a product to a wishlist together with its configuration options.
func (r *Repository) AddWishlistItem(ctx context.Context, item *models.WishlistItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	item.AddedAt = item.AddedAt.UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO wishlist_items (wishlist_id, product_id, qty, description, added_at) VALUES (?, ?, ?, ?, ?)`,
		item.WishlistID, item.ProductID, item.Qty, item.Description, item.AddedAt)
	if err != nil {
		return err
	}
	if item.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	for _, opt := range item.Options {
		opt.WishlistItemID = item.ID
		if opt.ProductID == 0 {
			opt.ProductID = item.ProductID
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO wishlist_item_options (wishlist_item_id, product_id, code, value) VALUES (?, ?, ?, ?)`,
			opt.WishlistItemID, opt.ProductID, opt.Code, opt.Value)
		if err != nil {
			return err
		}
		if opt.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wishlists SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, item.WishlistID); err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveWishlistItem deletes an item, ensuring it belongs to the given customer.
func (r *Repository) RemoveWishlistItem(ctx context.Context, customerID, itemID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE id = ? AND wishlist_id IN (SELECT id FROM wishlists WHERE customer_id = ?)`,
		itemID, customerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountWishlistItems returns the number of lines in the customer's wishlist.
func (r *Repository) CountWishlistItems(ctx context.Context, customerID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM wishlist_items i
		JOIN wishlists w ON w.id = i.wishlist_id
		WHERE w.customer_id = ?`, customerID)
	return count, err
}

// SumWishlistQty returns the total quantity over all lines of the customer's wishlist.
func (r *Repository) SumWishlistQty(ctx context.Context, customerID int64) (float64, error) {
	var sum float64
	err := r.db.GetContext(ctx, &sum,
		`SELECT COALESCE(SUM(i.qty), 0) FROM wishlist_items i
		JOIN wishlists w ON w.id = i.wishlist_id
		WHERE w.customer_id = ?`, customerID)
	return sum, err
}

// ListWishlistItems returns the customer's items with product and options loaded.
func (r *Repository) ListWishlistItems(ctx context.Context, customerID int64, filter ItemFilter) ([]*models.WishlistItem, error) {
	query := `SELECT i.id, i.wishlist_id, i.product_id, i.qty, i.description, i.added_at
		FROM wishlist_items i
		JOIN wishlists w ON w.id = i.wishlist_id
		JOIN products p ON p.id = i.product_id
		WHERE w.customer_id = ?`
	args := []any{customerID}

	if filter.InStockOnly {
		query += ` AND p.is_in_stock = 1`
	}

	switch filter.Order {
	case OrderAddedAt:
		query += ` ORDER BY i.added_at DESC, i.id DESC`
	case OrderID, "":
		query += ` ORDER BY i.id`
	default:
		return nil, fmt.Errorf("unsupported item order %q", filter.Order)
	}

	if filter.PageSize > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.PageSize)
	}

	var items []*models.WishlistItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := r.loadItemRelations(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// GetWishlistItem retrieves one item of the customer's wishlist with product and options.
func (r *Repository) GetWishlistItem(ctx context.Context, customerID, itemID int64) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.GetContext(ctx, &item,
		`SELECT i.id, i.wishlist_id, i.product_id, i.qty, i.description, i.added_at
		FROM wishlist_items i
		JOIN wishlists w ON w.id = i.wishlist_id
		WHERE i.id = ? AND w.customer_id = ?`, itemID, customerID)
	if err != nil {
		return nil, wrapError(err)
	}
	if err := r.loadItemRelations(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) loadItemRelations(ctx context.Context, item *models.WishlistItem) error {
	product, err := r.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return fmt.Errorf("loading product %d of item %d: %w", item.ProductID, item.ID, err)
	}
	item.Product = product

	options, err := getItemOptions(ctx, r.db, item.ID)
	if err != nil {
		return fmt.Errorf("loading options of item %d: %w", item.ID, err)
	}
	item.Options = options
	return nil
}

func getItemOptions(ctx context.Context, db *sqlx.DB, itemID int64) ([]*models.ItemOption, error) {
	var options []*models.ItemOption
	err := db.SelectContext(ctx, &options,
		`SELECT id, wishlist_item_id, product_id, code, value FROM wishlist_item_options
		WHERE wishlist_item_id = ? ORDER BY id`, itemID)
	return options, err
}
