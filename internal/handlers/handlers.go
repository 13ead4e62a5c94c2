// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers for the public voting API and
// the admin portal API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/adminauth"
	"github.com/unityvote/unityvote/internal/services/session"
	"github.com/unityvote/unityvote/internal/services/voting"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo     *repository.Repository
	votes    *voting.Service
	auth     *adminauth.Service
	sessions *session.Manager
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, votes *voting.Service, auth *adminauth.Service, sessions *session.Manager) *Handlers {
	return &Handlers{repo: repo, votes: votes, auth: auth, sessions: sessions}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
