// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/go-wishlist/internal/appcontext"
	"codeberg.org/oliverandrich/go-wishlist/internal/customerdata"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/session"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
	"github.com/labstack/echo/v4"
)

// SectionHandlers serves the customer data sections.
type SectionHandlers struct {
	pool     *customerdata.Pool
	sessions *session.Manager
}

// NewSections creates a new SectionHandlers instance.
func NewSections(pool *customerdata.Pool, sessions *session.Manager) *SectionHandlers {
	return &SectionHandlers{pool: pool, sessions: sessions}
}

// Load returns the requested sections keyed by name. The session cookie is
// re-issued when assembling a section updated the session.
func (h *SectionHandlers) Load(c echo.Context) error {
	cc := appcontext.FromEcho(c)
	names := splitList(c.QueryParam("sections"))

	ctx := visitor.WithContext(c.Request().Context(), cc.Visitor)
	data, err := h.pool.Load(ctx, names, &customerdata.Request{
		Visitor: cc.Visitor,
		Session: cc.Session,
	})
	if err != nil {
		slog.Error("failed to load sections", "error", err, "sections", names)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load sections"})
	}

	if cc.Session.Dirty() {
		cookie, err := h.sessions.Save(cc.Session)
		if err != nil {
			slog.Error("failed to save session", "error", err)
		} else {
			c.SetCookie(cookie)
		}
	}

	c.Response().Header().Set("Cache-Control", "private, no-store")
	return c.JSON(http.StatusOK, data)
}
