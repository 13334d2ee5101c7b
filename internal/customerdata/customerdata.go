// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package customerdata serves the private content sections the storefront
// loads for the current visitor.
package customerdata

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/metrics"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
)

// Section names.
const (
	SectionCustomer = "customer"
	SectionWishlist = "wishlist"
)

// Session is the part of the visitor's session a section may update.
type Session interface {
	SetCustomerID(id int64)
}

// Request carries the visitor and session of one section load.
type Request struct {
	Visitor *visitor.Context
	Session Session
}

// Source produces the data of one section.
type Source interface {
	SectionData(ctx context.Context, req *Request) (any, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, req *Request) (any, error)

// SectionData calls f.
func (f SourceFunc) SectionData(ctx context.Context, req *Request) (any, error) {
	return f(ctx, req)
}

// Plugin wraps a source. It may call next or replace its result entirely.
type Plugin func(next Source) Source

// Pool is the registry of section sources.
type Pool struct {
	sources map[string]Source
	order   []string
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{sources: make(map[string]Source)}
}

// Register adds a source under name, replacing any previous one.
func (p *Pool) Register(name string, src Source) {
	if _, ok := p.sources[name]; !ok {
		p.order = append(p.order, name)
	}
	p.sources[name] = src
}

// Decorate wraps the source registered under name with plugin.
func (p *Pool) Decorate(name string, plugin Plugin) error {
	src, ok := p.sources[name]
	if !ok {
		return fmt.Errorf("no section %q to decorate", name)
	}
	p.sources[name] = plugin(src)
	return nil
}

// Names returns the registered section names in registration order.
func (p *Pool) Names() []string {
	return append([]string(nil), p.order...)
}

// Load assembles the named sections. Unknown names are skipped and an empty
// list loads every section.
func (p *Pool) Load(ctx context.Context, names []string, req *Request) (map[string]any, error) {
	if len(names) == 0 {
		names = p.order
	}

	result := make(map[string]any, len(names))
	for _, name := range names {
		src, ok := p.sources[name]
		if !ok {
			continue
		}
		if _, done := result[name]; done {
			continue
		}

		start := time.Now()
		data, err := src.SectionData(ctx, req)
		metrics.SectionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.SectionLoads.WithLabelValues(name, "error").Inc()
			return nil, fmt.Errorf("loading section %s: %w", name, err)
		}
		metrics.SectionLoads.WithLabelValues(name, "ok").Inc()
		result[name] = data
	}
	return result, nil
}
