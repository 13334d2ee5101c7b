// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/go-wishlist/internal/config"
	"github.com/gorilla/securecookie"
)

const keyLength = 32

// Data is the payload stored in the session cookie.
type Data struct {
	CustomerID int64     `json:"customer_id"`
	Email      string    `json:"email,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`

	dirty bool
}

// SetCustomerID stores the customer the session belongs to.
func (d *Data) SetCustomerID(id int64) {
	if d.CustomerID != id {
		d.CustomerID = id
		d.dirty = true
	}
}

// Dirty reports whether the data changed since it was parsed or created.
func (d *Data) Dirty() bool {
	return d.dirty
}

// Manager issues and reads signed session cookies.
type Manager struct {
	codec  *securecookie.SecureCookie
	cfg    *config.SessionConfig
	secure bool
}

// NewManager creates a session manager. An empty hash key generates a random
// one, which invalidates sessions on every restart.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	hashKey, err := decodeKey(cfg.HashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}
	if hashKey == nil {
		slog.Warn("session hash key not configured, generating a random key")
		hashKey = make([]byte, keyLength)
		if _, err := rand.Read(hashKey); err != nil {
			return nil, fmt.Errorf("generating session hash key: %w", err)
		}
	}

	blockKey, err := decodeKey(cfg.BlockKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session block key: %w", err)
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(cfg.MaxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{codec: codec, cfg: cfg, secure: secure}, nil
}

func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keyLength, len(key))
	}
	return key, nil
}

// Create starts a session for a customer and returns its cookie.
func (m *Manager) Create(customerID int64, email string) (*http.Cookie, error) {
	return m.Save(&Data{CustomerID: customerID, Email: email})
}

// Save encodes data into a fresh cookie. Data without a customer clears the session.
func (m *Manager) Save(data *Data) (*http.Cookie, error) {
	if data.CustomerID == 0 {
		return m.Clear(), nil
	}

	data.ExpiresAt = time.Now().Add(time.Duration(m.cfg.MaxAge) * time.Second)
	value, err := m.codec.Encode(m.cfg.CookieName, data)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	data.dirty = false

	return m.cookie(value, m.cfg.MaxAge), nil
}

// Parse reads the session from the request. Missing, tampered or expired
// cookies yield nil without an error.
func (m *Manager) Parse(r *http.Request) (*Data, error) {
	c, err := r.Cookie(m.cfg.CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data Data
	if err := m.codec.Decode(m.cfg.CookieName, c.Value, &data); err != nil {
		slog.Debug("discarding invalid session cookie", "error", err)
		return nil, nil
	}
	if !data.ExpiresAt.IsZero() && time.Now().After(data.ExpiresAt) {
		return nil, nil
	}
	return &data, nil
}

// Clear returns a cookie that deletes the session.
func (m *Manager) Clear() *http.Cookie {
	return m.cookie("", -1)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
