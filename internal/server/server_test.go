// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        8080,
			BaseURL:     "http://shop.test",
			MaxBodySize: 1,
		},
		Session: config.SessionConfig{
			CookieName: "_session",
			MaxAge:     3600,
			HashKey:    testHashKey,
		},
		Catalog: config.CatalogConfig{
			MediaBaseURL: "http://shop.test/media",
			Currency:     "USD",
		},
		Wishlist: config.WishlistConfig{
			ShareLimit: 5,
		},
	}
}

func newTestServer(t *testing.T) (*echo.Echo, *repository.Repository) {
	t.Helper()
	require.NoError(t, i18n.Init())
	_, repo := testutil.NewTestDB(t)
	e, err := New(newTestConfig(), repo)
	require.NoError(t, err)
	return e, repo
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNew_InvalidCurrency(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	cfg := newTestConfig()
	cfg.Catalog.Currency = "NOPE"

	_, err := New(cfg, repo)

	assert.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_TrailingSlashRedirect(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/wishlist/link/?x=1", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/wishlist/link?x=1", rec.Header().Get(echo.HeaderLocation))
}

func TestServer_Metrics(t *testing.T) {
	e, _ := newTestServer(t)
	serve(e, httptest.NewRequest(http.MethodGet, "/customer/section/load", nil))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer_section_loads_total")
}

func TestServer_NotFoundIsJSON(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestServer_GuestSections(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/customer/section/load", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"customer":{},"wishlist":{"counter":null,"items":[]}}`, rec.Body.String())
}

func TestServer_GuestCannotConfigure(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/wishlist/index/configure?id=1&product_id=1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_LoginAndLoadSections(t *testing.T) {
	e, repo := newTestServer(t)
	customer := testutil.NewTestCustomer(t, repo, "jane@example.com")
	product := testutil.NewTestProduct(t, repo, "mug", 12)
	testutil.NewTestItem(t, repo, customer.ID, product.ID, 0)

	// Obtain a CSRF token
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/wishlist/link", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Log In")
	csrfCookie := findCookie(rec, "_csrf")
	require.NotNil(t, csrfCookie)

	// Log in
	body := `{"email":"jane@example.com","password":"` + testutil.TestPassword + `"}`
	req := httptest.NewRequest(http.MethodPost, "/customer/account/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-CSRF-Token", csrfCookie.Value)
	req.AddCookie(csrfCookie)
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sessionCookie := findCookie(rec, "_session")
	require.NotNil(t, sessionCookie)

	// Load sections as the customer
	req = httptest.NewRequest(http.MethodGet, "/customer/section/load?sections=customer,wishlist", nil)
	req.AddCookie(sessionCookie)
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sections struct {
		Customer struct {
			Firstname string `json:"firstname"`
		} `json:"customer"`
		Wishlist struct {
			Counter *string          `json:"counter"`
			Items   []map[string]any `json:"items"`
		} `json:"wishlist"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sections))
	assert.Equal(t, "Test", sections.Customer.Firstname)
	require.NotNil(t, sections.Wishlist.Counter)
	assert.Equal(t, "1 item", *sections.Wishlist.Counter)
	require.Len(t, sections.Wishlist.Items, 1)
	assert.Equal(t, "mug", sections.Wishlist.Items[0]["product_sku"])
	assert.Nil(t, findCookie(rec, "_session"), "valid session is not re-issued")
}

func TestServer_LoginRequiresCSRFToken(t *testing.T) {
	e, repo := newTestServer(t)
	testutil.NewTestCustomer(t, repo, "jane@example.com")

	body := `{"email":"jane@example.com","password":"` + testutil.TestPassword + `"}`
	req := httptest.NewRequest(http.MethodPost, "/customer/account/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, findCookie(rec, "_session"))
}

func TestServer_StaleSessionCleared(t *testing.T) {
	e, _ := newTestServer(t)
	sessMgr := newTestSessions(t)

	// Session for a customer that does not exist
	cookie, err := sessMgr.Create(99999, "gone@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/customer/section/load?sections=wishlist", nil)
	req.AddCookie(cookie)
	rec := serve(e, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"wishlist":{"counter":null,"items":[]}}`, rec.Body.String())

	cleared := findCookie(rec, "_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
