// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package wishlist

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/oliverandrich/go-wishlist/internal/i18n"
	"codeberg.org/oliverandrich/go-wishlist/internal/visitor"
)

// Link is the navigation link to the wishlist.
type Link struct {
	helper *Helper
}

// NewLink creates a Link.
func NewLink(helper *Helper) *Link {
	return &Link{helper: helper}
}

// IsLoggedIn reports whether the visitor is authenticated.
func (l *Link) IsLoggedIn(v *visitor.Context) bool {
	return v.Bool(visitor.ContextAuth)
}

// Component renders the link. Customers get the wishlist link with its
// counter, guests a login link.
func (l *Link) Component(v *visitor.Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !l.IsLoggedIn(v) {
			return wishlistLink(l.helper.LoginURL(), i18n.T(ctx, "wishlist_link_login"), nil).Render(ctx, w)
		}

		count, err := l.helper.ItemCount(ctx, v.CustomerID())
		if err != nil {
			return err
		}
		return wishlistLink(l.helper.WishlistURL(), i18n.T(ctx, "wishlist_link_title"), CounterLabel(ctx, count)).Render(ctx, w)
	})
}

// CustomerAuth exposes the visitor's login state to templates.
type CustomerAuth struct {
	visitor *visitor.Context
}

// NewCustomerAuth creates a CustomerAuth for the visitor.
func NewCustomerAuth(v *visitor.Context) *CustomerAuth {
	return &CustomerAuth{visitor: v}
}

// IsLoggedIn reports whether the visitor is authenticated.
func (a *CustomerAuth) IsLoggedIn() bool {
	return a.visitor.Bool(visitor.ContextAuth)
}
