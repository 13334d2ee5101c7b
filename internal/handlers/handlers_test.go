// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/go-wishlist/internal/appcontext"
	"codeberg.org/oliverandrich/go-wishlist/internal/handlers"
	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/session"
	"codeberg.org/oliverandrich/go-wishlist/internal/testutil"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func init() {
	// Initialize i18n for rendered labels
	_ = i18n.Init()
}

// asCustomer wraps c the way the visitor middleware does for a logged-in customer.
func asCustomer(c echo.Context, customer *models.Customer) *appcontext.Context {
	req := c.Request()
	ctx := i18n.WithLocale(req.Context(), language.English)
	c.SetRequest(req.WithContext(visitor.WithContext(ctx, visitor.Customer(customer.ID))))
	return &appcontext.Context{
		Context:  c,
		Visitor:  visitor.Customer(customer.ID),
		Session:  &session.Data{CustomerID: customer.ID, Email: customer.Email},
		Customer: customer,
	}
}

// asGuest wraps c for an anonymous visitor.
func asGuest(c echo.Context) *appcontext.Context {
	req := c.Request()
	c.SetRequest(req.WithContext(i18n.WithLocale(req.Context(), language.English)))
	return &appcontext.Context{
		Context: c,
		Visitor: visitor.Guest(),
		Session: &session.Data{},
	}
}

func TestNew(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	h := handlers.New(repo)

	assert.NotNil(t, h)
}

func TestHealth(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	h := handlers.New(repo)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/health", nil)

	err := h.Health(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_WithoutRepository(t *testing.T) {
	h := handlers.New(nil)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_DatabaseUnavailable(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	require.NoError(t, db.Close())
	h := handlers.New(repo)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "http error with message",
			method:   http.MethodGet,
			err:      echo.NewHTTPError(http.StatusNotFound, "no such page"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"no such page"}`,
		},
		{
			name:     "http error without string message",
			method:   http.MethodGet,
			err:      echo.NewHTTPError(http.StatusForbidden, map[string]int{"code": 1}),
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Forbidden"}`,
		},
		{
			name:     "plain error",
			method:   http.MethodGet,
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal Server Error"}`,
		},
		{
			name:     "head request",
			method:   http.MethodHead,
			err:      echo.ErrNotFound,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handlers.ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody == "" {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	handlers.ErrorHandler(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
