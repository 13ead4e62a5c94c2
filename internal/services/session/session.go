// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session manages server-side admin sessions. The browser holds only
// a signed cookie containing the opaque session ID; identity and role are
// always re-read from the store on every privileged request.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/unityvote/unityvote/internal/config"
	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
)

// ErrNoSession is returned when a request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// Manager creates, validates and destroys sessions.
type Manager struct {
	repo       *repository.Repository
	sc         *securecookie.SecureCookie
	cookieName string
	secure     bool
	lifetime   time.Duration
}

// NewManager creates a session manager. An empty hash key generates an
// ephemeral one, which invalidates cookies on restart; fine for development,
// set auth.hash_key in production.
func NewManager(repo *repository.Repository, cfg *config.AuthConfig) (*Manager, error) {
	var hashKey []byte
	if cfg.SessionHashKey != "" {
		var err error
		hashKey, err = hex.DecodeString(cfg.SessionHashKey)
		if err != nil {
			return nil, fmt.Errorf("decoding session hash key: %w", err)
		}
	} else {
		hashKey = securecookie.GenerateRandomKey(32)
	}

	lifetime := time.Duration(cfg.SessionDuration) * time.Hour
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	return &Manager{
		repo:       repo,
		sc:         securecookie.New(hashKey, nil),
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
		lifetime:   lifetime,
	}, nil
}

// Issue creates a session row for an admin and returns it with the cookie to
// set on the response.
func (m *Manager) Issue(ctx context.Context, adminID string) (*models.Session, *http.Cookie, error) {
	session := &models.Session{
		ID:        newSessionID(),
		AdminID:   adminID,
		ExpiresAt: time.Now().UTC().Add(m.lifetime),
	}
	if err := m.repo.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}

	encoded, err := m.sc.Encode(m.cookieName, session.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding session cookie: %w", err)
	}

	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	return session, cookie, nil
}

// Validate resolves the request's session cookie to an active admin.
func (m *Manager) Validate(ctx context.Context, r *http.Request) (*models.Admin, *models.Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, nil, ErrNoSession
	}

	var sessionID string
	if err := m.sc.Decode(m.cookieName, cookie.Value, &sessionID); err != nil {
		return nil, nil, ErrNoSession
	}

	session, err := m.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Expired(time.Now().UTC()) {
		_ = m.repo.DeleteSession(ctx, session.ID)
		return nil, nil, ErrNoSession
	}

	admin, err := m.repo.GetAdmin(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf("loading admin: %w", err)
	}
	if !admin.IsActive {
		return nil, nil, ErrNoSession
	}

	return admin, session, nil
}

// Destroy removes a session and returns an expired cookie for the response.
func (m *Manager) Destroy(ctx context.Context, sessionID string) (*http.Cookie, error) {
	if err := m.repo.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("deleting session: %w", err)
	}
	return m.ClearCookie(), nil
}

// ClearCookie returns a cookie that removes the session cookie client-side.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// newSessionID returns an opaque random session identifier.
func newSessionID() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
