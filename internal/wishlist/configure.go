// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package wishlist

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"codeberg.org/oliverandrich/go-wishlist/internal/models"
)

const superAttributeKey = "super_attribute"

var (
	attrEncoder = strings.NewReplacer("+", "-", "/", "_", "=", ".")
	attrDecoder = strings.NewReplacer("-", "+", "_", "/", ".", "=")
)

// ConfigureURL returns the URL that reopens the item for configuration. The
// attribute selection of the last order option carrying one is passed as attr.
func (h *Helper) ConfigureURL(item *models.WishlistItem) (string, error) {
	options, err := item.OrderOptions()
	if err != nil {
		return "", err
	}

	// Every entry is visited; a later selection overrides an earlier one.
	// A null selection is no selection.
	var selection any
	var found bool
	for _, opt := range options {
		if v, ok := opt[superAttributeKey]; ok && v != nil {
			selection = v
			found = true
		}
	}

	params := url.Values{}
	params.Set("id", strconv.FormatInt(item.ID, 10))
	params.Set("product_id", strconv.FormatInt(item.ProductID, 10))
	params.Set("qty", strconv.Itoa(int(item.Qty)))

	if found {
		attr, err := EncodeAttr(selection)
		if err != nil {
			return "", err
		}
		params.Set("attr", attr)
	}

	return h.urls.URL(RouteConfigure, params), nil
}

// EncodeAttr serialises an attribute selection into its URL-safe form.
func EncodeAttr(selection any) (string, error) {
	b, err := json.Marshal(selection)
	if err != nil {
		return "", fmt.Errorf("encoding super attribute: %w", err)
	}
	return attrEncoder.Replace(base64.StdEncoding.EncodeToString(b)), nil
}

// DecodeAttr reverses EncodeAttr.
func DecodeAttr(attr string) (map[string]any, error) {
	b, err := base64.StdEncoding.DecodeString(attrDecoder.Replace(attr))
	if err != nil {
		return nil, fmt.Errorf("decoding attr: %w", err)
	}
	var selection map[string]any
	if err := json.Unmarshal(b, &selection); err != nil {
		return nil, fmt.Errorf("decoding attr: %w", err)
	}
	return selection, nil
}
