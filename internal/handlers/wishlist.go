// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/appcontext"
	"codeberg.org/oliverandrich/go-wishlist/internal/metrics"
	"codeberg.org/oliverandrich/go-wishlist/internal/models"
	"codeberg.org/oliverandrich/go-wishlist/internal/repository"
	"codeberg.org/oliverandrich/go-wishlist/internal/services/email"
	"codeberg.org/oliverandrich/go-wishlist/internal/urlbuilder"
	"codeberg.org/oliverandrich/go-wishlist/internal/wishlist"
	"github.com/labstack/echo/v4"
)

// Sharer sends shared wishlists.
type Sharer interface {
	ShareWishlist(ctx context.Context, share *email.Share) error
}

// WishlistHandlers contains the wishlist endpoints.
type WishlistHandlers struct {
	repo       *repository.Repository
	helper     *wishlist.Helper
	link       *wishlist.Link
	urls       *urlbuilder.Builder
	sharer     Sharer // nil when sharing is disabled
	shareLimit int
}

// NewWishlist creates a new WishlistHandlers instance. A nil sharer disables sharing.
func NewWishlist(repo *repository.Repository, helper *wishlist.Helper, link *wishlist.Link, urls *urlbuilder.Builder, sharer Sharer, shareLimit int) *WishlistHandlers {
	return &WishlistHandlers{
		repo:       repo,
		helper:     helper,
		link:       link,
		urls:       urls,
		sharer:     sharer,
		shareLimit: shareLimit,
	}
}

// ItemView is the JSON representation of a wishlist item.
type ItemView struct { //nolint:govet // fieldalignment not critical for views
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ProductSKU   string    `json:"product_sku"`
	ProductName  string    `json:"product_name"`
	ProductURL   string    `json:"product_url"`
	Qty          float64   `json:"qty"`
	Description  string    `json:"description,omitempty"`
	AddedAt      time.Time `json:"added_at"`
	ConfigureURL string    `json:"configure_url"`
}

func (h *WishlistHandlers) itemView(item *models.WishlistItem) (*ItemView, error) {
	configureURL, err := h.helper.ConfigureURL(item)
	if err != nil {
		return nil, err
	}
	view := &ItemView{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductURL:   h.helper.ProductURL(item),
		Qty:          item.Qty,
		Description:  item.Description,
		AddedAt:      item.AddedAt,
		ConfigureURL: configureURL,
	}
	if item.Product != nil {
		view.ProductSKU = item.Product.SKU
		view.ProductName = item.Product.Name
	}
	return view, nil
}

func (h *WishlistHandlers) itemViews(items []*models.WishlistItem) ([]*ItemView, error) {
	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		view, err := h.itemView(item)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Link renders the login-state link fragment.
func (h *WishlistHandlers) Link(c echo.Context) error {
	cc := appcontext.FromEcho(c)
	return Render(c, http.StatusOK, h.link.Component(cc.Visitor))
}

// Index lists the customer's wishlist.
func (h *WishlistHandlers) Index(c echo.Context) error {
	cc := appcontext.FromEcho(c)
	ctx := c.Request().Context()

	items, err := h.helper.ItemCollection(ctx, cc.Visitor.CustomerID(), repository.ItemFilter{Order: repository.OrderAddedAt})
	if err != nil {
		slog.Error("failed to list wishlist", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load wishlist"})
	}
	views, err := h.itemViews(items)
	if err != nil {
		slog.Error("failed to build wishlist items", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load wishlist"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": views,
	})
}

// Configure returns an item together with the attribute selection passed in attr.
func (h *WishlistHandlers) Configure(c echo.Context) error {
	cc := appcontext.FromEcho(c)

	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product_id"})
	}
	qty := 1
	if raw := c.QueryParam("qty"); raw != "" {
		if qty, err = strconv.Atoi(raw); err != nil || qty < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid qty"})
		}
	}

	var selection map[string]any
	if attr := c.QueryParam("attr"); attr != "" {
		if selection, err = wishlist.DecodeAttr(attr); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid attr"})
		}
	}

	item, err := h.repo.GetWishlistItem(c.Request().Context(), cc.Visitor.CustomerID(), id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && item.ProductID != productID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "item not found"})
	}
	if err != nil {
		slog.Error("failed to load wishlist item", "error", err, "item_id", id)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}

	view, err := h.itemView(item)
	if err != nil {
		slog.Error("failed to build wishlist item", "error", err, "item_id", id)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load item"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"item":            view,
		"qty":             qty,
		"super_attribute": selection,
	})
}

// Add puts a product on the customer's wishlist. Attribute selections are
// passed as super_attribute[<attribute id>]=<value id>.
func (h *WishlistHandlers) Add(c echo.Context) error {
	cc := appcontext.FromEcho(c)
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	productID, err := strconv.ParseInt(form.Get("product"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product"})
	}
	qty := 1.0
	if raw := form.Get("qty"); raw != "" {
		if qty, err = strconv.ParseFloat(raw, 64); err != nil || qty <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid qty"})
		}
	}

	product, err := h.repo.GetProductByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}
	if err != nil {
		slog.Error("failed to load product", "error", err, "product_id", productID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}

	buyRequest, err := buyRequestOption(product, qty, form)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to add item"})
	}

	wl, err := h.repo.GetOrCreateWishlist(ctx, cc.Visitor.CustomerID())
	if err != nil {
		slog.Error("failed to load wishlist", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}

	item := &models.WishlistItem{
		WishlistID:  wl.ID,
		ProductID:   product.ID,
		Qty:         qty,
		Description: strings.TrimSpace(form.Get("description")),
		Product:     product,
		Options:     []*models.ItemOption{buyRequest},
	}
	if err := h.repo.AddWishlistItem(ctx, item); err != nil {
		slog.Error("failed to add wishlist item", "error", err, "product_id", product.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to add item"})
	}

	view, err := h.itemView(item)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to add item"})
	}
	return c.JSON(http.StatusCreated, view)
}

// buyRequestOption records how the product was requested.
func buyRequestOption(product *models.Product, qty float64, form url.Values) (*models.ItemOption, error) {
	request := map[string]any{
		"product": product.ID,
		"qty":     qty,
	}

	selection := make(map[string]string)
	for key, values := range form {
		if !strings.HasPrefix(key, "super_attribute[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		attrID := strings.TrimSuffix(strings.TrimPrefix(key, "super_attribute["), "]")
		if attrID != "" {
			selection[attrID] = values[0]
		}
	}
	if len(selection) > 0 {
		request["super_attribute"] = selection
	}

	b, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	return &models.ItemOption{
		Code:      models.OptionBuyRequest,
		ProductID: product.ID,
		Value:     string(b),
	}, nil
}

// Remove deletes an item from the customer's wishlist.
func (h *WishlistHandlers) Remove(c echo.Context) error {
	cc := appcontext.FromEcho(c)

	itemID, err := strconv.ParseInt(c.FormValue("item"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid item"})
	}

	err = h.repo.RemoveWishlistItem(c.Request().Context(), cc.Visitor.CustomerID(), itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "item not found"})
	}
	if err != nil {
		slog.Error("failed to remove wishlist item", "error", err, "item_id", itemID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Send shares the customer's wishlist by email.
func (h *WishlistHandlers) Send(c echo.Context) error {
	if h.sharer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "wishlist sharing is not available"})
	}

	cc := appcontext.FromEcho(c)
	ctx := c.Request().Context()

	recipients, err := email.ParseRecipients(c.FormValue("emails"), h.shareLimit)
	if err != nil {
		metrics.WishlistShares.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	customerID := cc.Visitor.CustomerID()
	wl, err := h.repo.GetOrCreateWishlist(ctx, customerID)
	if err != nil {
		slog.Error("failed to load wishlist", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}
	items, err := h.helper.ItemCollection(ctx, customerID, repository.ItemFilter{Order: repository.OrderAddedAt})
	if err != nil {
		slog.Error("failed to list wishlist", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}
	if len(items) == 0 {
		metrics.WishlistShares.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "wishlist is empty"})
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Product != nil {
			names = append(names, item.Product.Name)
		}
	}

	senderName := ""
	if customer := cc.GetCustomer(); customer != nil {
		senderName = customer.FullName()
	}

	err = h.sharer.ShareWishlist(ctx, &email.Share{
		SenderName: senderName,
		Recipients: recipients,
		Message:    c.FormValue("message"),
		Items:      names,
		URL:        h.urls.URL("wishlist/shared", url.Values{"code": {wl.SharingCode}}),
	})
	if err != nil {
		metrics.WishlistShares.WithLabelValues("failed").Inc()
		slog.Error("failed to share wishlist", "error", err, "wishlist_id", wl.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to send email"})
	}

	if err := h.repo.MarkWishlistShared(ctx, wl.ID); err != nil {
		slog.Error("failed to mark wishlist shared", "error", err, "wishlist_id", wl.ID)
	}
	metrics.WishlistShares.WithLabelValues("sent").Inc()

	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"recipients": len(recipients),
	})
}

// Shared shows a wishlist by its sharing code.
func (h *WishlistHandlers) Shared(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "wishlist not found"})
	}

	wl, err := h.repo.GetWishlistBySharingCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !wl.Shared) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "wishlist not found"})
	}
	if err != nil {
		slog.Error("failed to load shared wishlist", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}

	owner, err := h.repo.GetCustomerByID(ctx, wl.CustomerID)
	if err != nil {
		slog.Error("failed to load wishlist owner", "error", err, "wishlist_id", wl.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}

	items, err := h.helper.ItemCollection(ctx, wl.CustomerID, repository.ItemFilter{Order: repository.OrderAddedAt})
	if err != nil {
		slog.Error("failed to list shared wishlist", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
	}
	views, err := h.itemViews(items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load wishlist"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"owner": owner.Firstname,
		"items": views,
	})
}
