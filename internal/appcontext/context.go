// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the custom Echo context and context keys.
package appcontext

import (
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/session"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
	"github.com/labstack/echo/v4"
)

// Context keys for storing values in context.Context.
type (
	// CSRFToken is the context key for the CSRF token.
	CSRFToken struct{}
)

// Context is a custom Echo context carrying the visitor of the request.
type Context struct {
	echo.Context
	Visitor  *visitor.Context
	Session  *session.Data
	Customer *models.Customer // nil for guests
}

// FromEcho returns c as a Context, wrapping plain contexts as guests.
func FromEcho(c echo.Context) *Context {
	if cc, ok := c.(*Context); ok {
		if cc.Visitor == nil {
			cc.Visitor = visitor.Guest()
		}
		if cc.Session == nil {
			cc.Session = &session.Data{}
		}
		return cc
	}
	return &Context{
		Context: c,
		Visitor: visitor.Guest(),
		Session: &session.Data{},
	}
}

// GetCustomer returns the authenticated customer, or nil for guests.
func (c *Context) GetCustomer() *models.Customer {
	return c.Customer
}

// IsAuthenticated returns true if a customer is logged in.
func (c *Context) IsAuthenticated() bool {
	return c.Customer != nil
}
