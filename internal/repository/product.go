// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
)

const productColumns = `id, parent_id, sku, name, type_id, url_key, price, special_price, image, image_label,
	visibility, enabled, is_in_stock, has_required_options`

// CreateProduct inserts a product and sets its ID.
func (r *Repository) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.TypeID == "" {
		p.TypeID = models.TypeSimple
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (parent_id, sku, name, type_id, url_key, price, special_price, image, image_label,
			visibility, enabled, is_in_stock, has_required_options)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ParentID, p.SKU, p.Name, p.TypeID, p.URLKey, p.Price, p.SpecialPrice, p.Image, p.ImageLabel,
		p.Visibility, p.Enabled, p.IsInStock, p.HasRequiredOptions)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// GetProductByID retrieves a product by ID.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.GetContext(ctx, &product, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &product, nil
}

// SetProductStock updates the stock status of a product.
func (r *Repository) SetProductStock(ctx context.Context, id int64, inStock bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET is_in_stock = ? WHERE id = ?`, inStock, id)
	return err
}
