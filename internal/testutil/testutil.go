// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/database"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password of customers created by NewTestCustomer.
const TestPassword = "secret-password"

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestCustomer creates a customer with TestPassword.
func NewTestCustomer(t *testing.T, repo *repository.Repository, email string) *models.Customer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	customer, err := repo.CreateCustomer(context.Background(), email, string(hash), "Test", "Customer")
	require.NoError(t, err)
	return customer
}

// NewTestProduct creates a visible, enabled, in-stock simple product.
func NewTestProduct(t *testing.T, repo *repository.Repository, sku string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{
		SKU:        sku,
		Name:       "Product " + sku,
		URLKey:     sku,
		Price:      price,
		Image:      "/" + sku + ".jpg",
		Visibility: models.VisibilityBoth,
		Enabled:    true,
		IsInStock:  true,
	}
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	return p
}

// SaveTestProduct persists a caller-built product.
func SaveTestProduct(t *testing.T, repo *repository.Repository, p *models.Product) *models.Product {
	t.Helper()
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	return p
}

// NewTestItem adds a product to the customer's wishlist, added at the given offset from a fixed base time.
func NewTestItem(t *testing.T, repo *repository.Repository, customerID, productID int64, addedAfter time.Duration, options ...*models.ItemOption) *models.WishlistItem {
	t.Helper()
	ctx := context.Background()
	wl, err := repo.GetOrCreateWishlist(ctx, customerID)
	require.NoError(t, err)

	item := &models.WishlistItem{
		WishlistID: wl.ID,
		ProductID:  productID,
		Qty:        1,
		AddedAt:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(addedAfter),
		Options:    options,
	}
	require.NoError(t, repo.AddWishlistItem(ctx, item))
	return item
}

// SuperAttributeOption builds a buy request option selecting the given attribute values.
func SuperAttributeOption(attributes string) *models.ItemOption {
	return &models.ItemOption{
		Code:  models.OptionBuyRequest,
		Value: fmt.Sprintf(`{"qty":1,"super_attribute":%s}`, attributes),
	}
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoFormContext creates an Echo context carrying a url-encoded form body.
func NewEchoFormContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
