// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package visitor holds the request-scoped facts about the current storefront visitor.
package visitor

import (
	"context"
)

// Keys of the values every request carries.
const (
	ContextAuth       = "customer_logged_in"
	ContextCustomerID = "customer_id"
)

type contextKey struct{}

// Context is a key-value store scoped to one request.
type Context struct {
	values map[string]any
}

// New returns an empty visitor context.
func New() *Context {
	return &Context{values: make(map[string]any)}
}

// Guest returns the context of an anonymous visitor.
func Guest() *Context {
	v := New()
	v.SetValue(ContextAuth, false)
	v.SetValue(ContextCustomerID, int64(0))
	return v
}

// Customer returns the context of an authenticated customer.
func Customer(customerID int64) *Context {
	v := New()
	v.SetValue(ContextAuth, true)
	v.SetValue(ContextCustomerID, customerID)
	return v
}

// SetValue stores a value under key.
func (c *Context) SetValue(key string, value any) {
	c.values[key] = value
}

// GetValue returns the value stored under key, or nil.
func (c *Context) GetValue(key string) any {
	if c == nil {
		return nil
	}
	return c.values[key]
}

// Unset removes a value.
func (c *Context) Unset(key string) {
	delete(c.values, key)
}

// Bool returns the value under key when it is a bool, false otherwise.
func (c *Context) Bool(key string) bool {
	b, _ := c.GetValue(key).(bool)
	return b
}

// CustomerID returns the visitor's customer ID, 0 for guests.
func (c *Context) CustomerID() int64 {
	switch id := c.GetValue(ContextCustomerID).(type) {
	case int64:
		return id
	case int:
		return int64(id)
	}
	return 0
}

// WithContext stores the visitor context in ctx.
func WithContext(ctx context.Context, v *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the visitor context from ctx, or a guest context.
func FromContext(ctx context.Context) *Context {
	if v, ok := ctx.Value(contextKey{}).(*Context); ok && v != nil {
		return v
	}
	return Guest()
}
