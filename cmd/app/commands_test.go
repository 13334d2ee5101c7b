// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"codeberg.org/oliverandrich/go-wishlist/internal/database"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func runApp(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"app", "--database-dsn", dsn}, args...))
	return out.String(), err
}

func TestCustomerCreate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "wishlist.db")

	out, err := runApp(t, dsn, "customer", "create",
		"--email", " Jane@Example.com ", "--password", "s3cret", "--firstname", "Jane", "--lastname", "Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "created customer 1 (jane@example.com)")

	db, err := database.Open(dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	customer, err := repository.New(db).GetCustomerByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", customer.FullName())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("s3cret")))
}

func TestCustomerCreate_MissingEmail(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "wishlist.db")

	_, err := runApp(t, dsn, "customer", "create", "--password", "s3cret")

	assert.Error(t, err)
}

func TestProductCreate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "wishlist.db")

	out, err := runApp(t, dsn, "product", "create",
		"--sku", "MUG-1", "--name", "Mug", "--price", "12.5", "--special-price", "9.99", "--out-of-stock")
	require.NoError(t, err)
	assert.Contains(t, out, "created product 1 (MUG-1)")

	db, err := database.Open(dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	product, err := repository.New(db).GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "mug-1", product.URLKey)
	assert.InDelta(t, 12.5, product.Price, 0.001)
	assert.True(t, product.SpecialPrice.Valid)
	assert.InDelta(t, 9.99, product.SpecialPrice.Float64, 0.001)
	assert.False(t, product.IsInStock)
	assert.False(t, product.ParentID.Valid)
}

func TestMigrateStatusAndReset(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "wishlist.db")

	out, err := runApp(t, dsn, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 1")

	_, err = runApp(t, dsn, "migrate", "reset")
	require.NoError(t, err)

	// Opening the database migrates it up again
	out, err = runApp(t, dsn, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 1")
}
