// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models holds the storage-backed types of the wishlist service.
package models

import (
	"time"
)

// Customer is a registered storefront visitor.
type Customer struct { //nolint:govet // fieldalignment not critical for models
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Firstname    string    `db:"firstname" json:"firstname"`
	Lastname     string    `db:"lastname" json:"lastname"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	switch {
	case c.Firstname == "":
		return c.Lastname
	case c.Lastname == "":
		return c.Firstname
	}
	return c.Firstname + " " + c.Lastname
}

// Wishlist is the single list owned by a customer.
type Wishlist struct { //nolint:govet // fieldalignment not critical for models
	ID          int64     `db:"id" json:"id"`
	CustomerID  int64     `db:"customer_id" json:"customer_id"`
	SharingCode string    `db:"sharing_code" json:"sharing_code"`
	Shared      bool      `db:"shared" json:"shared"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
