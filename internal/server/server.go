// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/catalog"
	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"codeberg.org/oliverandrich/go-wishlist/internal/customerdata"
	"codeberg.org/oliverandrich/go-wishlist/internal/database"
	"codeberg.org/oliverandrich/go-wishlist/internal/handlers"
	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/metrics"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/email"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/session"
	"codeberg.org/oliverandrich/go-wishlist/internal/urlbuilder"
	"codeberg.org/oliverandrich/go-wishlist/internal/wishlist"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database and migrations
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	e, err := New(cfg, repository.New(db))
	if err != nil {
		return err
	}

	return startWithGracefulShutdown(ctx, e, cfg)
}

// New builds the Echo instance with all services, middleware and routes.
func New(cfg *config.Config, repo *repository.Repository) (*echo.Echo, error) {
	sessions, err := session.NewManager(&cfg.Session, cfg.IsSecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	urls := urlbuilder.New(cfg.Server.BaseURL)
	helper := wishlist.NewHelper(repo, urls, cfg.Wishlist)

	// Catalog
	resolver := catalog.NewItemResolver(repo)
	prices, err := catalog.NewPriceRenderer(cfg.Catalog.Currency, resolver)
	if err != nil {
		return nil, err
	}
	sidebar := wishlist.NewSidebar(
		helper,
		catalog.NewImageHelper(cfg.Catalog.MediaBaseURL),
		prices,
		catalog.NewReviews(repo),
		resolver,
	)

	// Customer data sections
	pool := customerdata.NewPool()
	pool.Register(customerdata.SectionCustomer, customerdata.NewCustomerSource(repo))
	pool.Register(customerdata.SectionWishlist, customerdata.NewWishlistSource(helper))
	if err := pool.Decorate(customerdata.SectionWishlist, sidebar.Plugin()); err != nil {
		return nil, err
	}

	// Email is optional
	var sharer handlers.Sharer
	if cfg.SMTP.Host != "" {
		svc, err := email.NewService(&cfg.SMTP)
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
		sharer = svc
	} else {
		slog.Info("SMTP not configured, wishlist sharing disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg, sessions, repo)

	setupRoutes(e, routes{
		base:     handlers.New(repo),
		auth:     handlers.NewAuth(repo, sessions),
		sections: handlers.NewSections(pool, sessions),
		wishlist: handlers.NewWishlist(repo, helper, wishlist.NewLink(helper), urls, sharer, cfg.Wishlist.ShareLimit),
	})

	return e, nil
}

type routes struct {
	base     *handlers.Handlers
	auth     *handlers.AuthHandlers
	sections *handlers.SectionHandlers
	wishlist *handlers.WishlistHandlers
}

func setupRoutes(e *echo.Echo, r routes) {
	e.GET("/health", r.base.Health)
	e.GET("/metrics", metrics.Handler())

	e.GET("/customer/section/load", r.sections.Load)
	e.POST("/customer/account/login", r.auth.Login)
	e.POST("/customer/account/logout", r.auth.Logout)

	e.GET("/wishlist/link", r.wishlist.Link)
	e.GET("/wishlist/shared", r.wishlist.Shared)

	// Customer only
	customer := e.Group("/wishlist", RequireCustomer())
	customer.GET("", r.wishlist.Index)
	customer.GET("/index/configure", r.wishlist.Configure)
	customer.POST("/index/add", r.wishlist.Add)
	customer.POST("/index/remove", r.wishlist.Remove)
	customer.POST("/index/send", r.wishlist.Send)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
