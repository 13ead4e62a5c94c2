// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
)

type contestantRequest struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Category    string `json:"category"`
	PhotoURL    string `json:"photoUrl"`
	Email       string `json:"email"`
	LinkedinURL string `json:"linkedinUrl"`
	ContestID   string `json:"contestId"`
}

// ListContestants handles GET /api/contestants. Filters: ?contestId=,
// ?categoryId=, ?status=, ?visible=. The public leaderboard passes
// visible=true; results come back votes-descending.
func (h *Handlers) ListContestants(c echo.Context) error {
	filter := repository.ContestantFilter{
		ContestID:  c.QueryParam("contestId"),
		CategoryID: c.QueryParam("categoryId"),
		Status:     c.QueryParam("status"),
	}
	switch c.QueryParam("visible") {
	case "true":
		visible := true
		filter.IsVisible = &visible
	case "false":
		visible := false
		filter.IsVisible = &visible
	}

	contestants, err := h.repo.ListContestants(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contestants": contestants})
}

// GetContestant handles GET /api/contestants/:id.
func (h *Handlers) GetContestant(c echo.Context) error {
	contestant, err := h.repo.GetContestant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contestant": contestant})
}

// CreateContestant handles POST /api/contestants. The category is referenced
// by name and created for the contest when it does not exist yet.
func (h *Handlers) CreateContestant(c echo.Context) error {
	var req contestantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" || req.Category == "" || req.ContestID == "" {
		return badRequest(c, "name, category and contestId are required")
	}

	ctx := c.Request().Context()
	if _, err := h.repo.GetContest(ctx, req.ContestID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return badRequest(c, "contest does not exist")
		}
		return fail(c, err)
	}

	category, err := h.repo.FindOrCreateCategory(ctx, req.ContestID, req.Category)
	if err != nil {
		return fail(c, err)
	}

	contestant := &models.Contestant{
		Name:        req.Name,
		Bio:         req.Bio,
		CategoryID:  category.ID,
		PhotoURL:    req.PhotoURL,
		Email:       req.Email,
		LinkedinURL: req.LinkedinURL,
		IsVisible:   true,
		Status:      models.ContestantActive,
		ContestID:   req.ContestID,
	}
	if err := h.repo.CreateContestant(ctx, contestant); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"contestant": contestant})
}

// UpdateContestant handles PATCH /api/contestants/:id. A category name moves
// the contestant, creating the category when needed. The votes counter is not
// writable through this endpoint.
func (h *Handlers) UpdateContestant(c echo.Context) error {
	ctx := c.Request().Context()
	contestant, err := h.repo.GetContestant(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Name        *string `json:"name"`
		Bio         *string `json:"bio"`
		Category    *string `json:"category"`
		PhotoURL    *string `json:"photoUrl"`
		Email       *string `json:"email"`
		LinkedinURL *string `json:"linkedinUrl"`
		IsVisible   *bool   `json:"isVisible"`
		Status      *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.Name != nil {
		contestant.Name = *req.Name
	}
	if req.Bio != nil {
		contestant.Bio = *req.Bio
	}
	if req.Category != nil {
		category, err := h.repo.FindOrCreateCategory(ctx, contestant.ContestID, *req.Category)
		if err != nil {
			return fail(c, err)
		}
		contestant.CategoryID = category.ID
	}
	if req.PhotoURL != nil {
		contestant.PhotoURL = *req.PhotoURL
	}
	if req.Email != nil {
		contestant.Email = *req.Email
	}
	if req.LinkedinURL != nil {
		contestant.LinkedinURL = *req.LinkedinURL
	}
	if req.IsVisible != nil {
		contestant.IsVisible = *req.IsVisible
	}
	if req.Status != nil {
		if *req.Status != models.ContestantActive && *req.Status != models.ContestantWithdrawn {
			return badRequest(c, "invalid status")
		}
		contestant.Status = *req.Status
	}
	if contestant.Name == "" {
		return badRequest(c, "name is required")
	}

	if err := h.repo.UpdateContestant(ctx, contestant); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contestant": contestant})
}

// DeleteContestant handles DELETE /api/contestants/:id.
func (h *Handlers) DeleteContestant(c echo.Context) error {
	if err := h.repo.DeleteContestant(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
