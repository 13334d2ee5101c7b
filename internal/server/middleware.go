// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/go-wishlist/internal/appcontext"
	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/metrics"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/session"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CustomerLoader loads customers by ID.
type CustomerLoader interface {
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
}

func setupMiddleware(e *echo.Echo, cfg *config.Config, sessions *session.Manager, customers CustomerLoader) {
	// Canonical URLs have no trailing slash
	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(metrics.Middleware())
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(csrfMiddleware(cfg))
	e.Use(csrfToContext())
	e.Use(i18nMiddleware())
	e.Use(VisitorMiddleware(sessions, customers))
}

// csrfMiddleware configures CSRF protection. Health and metrics probes are exempt.
func csrfMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/health", "/metrics":
				return true
			}
			return false
		},
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   cfg.IsSecure(),
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// csrfToContext copies the CSRF token to the request context.
func csrfToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get("csrf").(string); ok {
				ctx := context.WithValue(c.Request().Context(), appcontext.CSRFToken{}, token)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			} else {
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}

// i18nMiddleware sets the locale based on Accept-Language header.
func i18nMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acceptLang := c.Request().Header.Get("Accept-Language")
			lang := i18n.MatchLanguage(acceptLang)
			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// VisitorMiddleware resolves the visitor from the session cookie. A session
// whose customer no longer exists is kept so it can be repaired, but the
// visitor is treated as a guest.
func VisitorMiddleware(sessions *session.Manager, customers CustomerLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &appcontext.Context{
				Context: c,
				Visitor: visitor.Guest(),
				Session: &session.Data{},
			}

			data, err := sessions.Parse(c.Request())
			if err != nil {
				slog.Warn("failed to parse session", "error", err)
			}
			if data != nil {
				cc.Session = data
				customer, err := customers.GetCustomerByID(c.Request().Context(), data.CustomerID)
				switch {
				case err == nil:
					cc.Customer = customer
					cc.Visitor = visitor.Customer(customer.ID)
				case errors.Is(err, repository.ErrNotFound):
					slog.Debug("session customer not found", "customer_id", data.CustomerID)
				default:
					return err
				}
			}

			ctx := visitor.WithContext(c.Request().Context(), cc.Visitor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(cc)
		}
	}
}

// RequireCustomer rejects guests.
func RequireCustomer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !appcontext.FromEcho(c).IsAuthenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			return next(c)
		}
	}
}
