// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
)

const customerColumns = `id, email, password_hash, firstname, lastname, created_at`

// CreateCustomer creates a new customer.
func (r *Repository) CreateCustomer(ctx context.Context, email, passwordHash, firstname, lastname string) (*models.Customer, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (email, password_hash, firstname, lastname) VALUES (?, ?, ?, ?)`,
		email, passwordHash, firstname, lastname)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetCustomerByID(ctx, id)
}

// GetCustomerByID retrieves a customer by ID.
func (r *Repository) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.GetContext(ctx, &customer, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &customer, nil
}

// GetCustomerByEmail retrieves a customer by email address.
func (r *Repository) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.GetContext(ctx, &customer, `SELECT `+customerColumns+` FROM customers WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &customer, nil
}
