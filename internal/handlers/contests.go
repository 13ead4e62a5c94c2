// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unityvote/unityvote/internal/models"
)

type contestRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      string    `json:"status"`
	BannerURL   string    `json:"bannerUrl"`
}

func validContestStatus(s string) bool {
	switch s {
	case models.ContestUpcoming, models.ContestActive, models.ContestPaused, models.ContestEnded:
		return true
	}
	return false
}

// ListContests handles GET /api/contests, optionally filtered by ?status=.
func (h *Handlers) ListContests(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !validContestStatus(status) {
		return badRequest(c, "invalid status filter")
	}

	contests, err := h.repo.ListContests(c.Request().Context(), status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contests": contests})
}

// GetContest handles GET /api/contests/:id and includes list-view counters.
func (h *Handlers) GetContest(c echo.Context) error {
	ctx := c.Request().Context()
	contest, err := h.repo.GetContest(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	counts, err := h.repo.ContestCounts(ctx, contest.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contest": contest, "counts": counts})
}

// CreateContest handles POST /api/contests.
func (h *Handlers) CreateContest(c echo.Context) error {
	var req contestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}
	if req.Status == "" {
		req.Status = models.ContestUpcoming
	}
	if !validContestStatus(req.Status) {
		return badRequest(c, "invalid status")
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return badRequest(c, "endDate must not be before startDate")
	}

	contest := &models.Contest{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		BannerURL:   req.BannerURL,
	}
	if err := h.repo.CreateContest(c.Request().Context(), contest); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"contest": contest})
}

// UpdateContest handles PATCH /api/contests/:id. Absent fields keep their
// current values.
func (h *Handlers) UpdateContest(c echo.Context) error {
	ctx := c.Request().Context()
	contest, err := h.repo.GetContest(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		StartDate   *time.Time `json:"startDate"`
		EndDate     *time.Time `json:"endDate"`
		Status      *string    `json:"status"`
		BannerURL   *string    `json:"bannerUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.Title != nil {
		contest.Title = *req.Title
	}
	if req.Description != nil {
		contest.Description = *req.Description
	}
	if req.StartDate != nil {
		contest.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		contest.EndDate = *req.EndDate
	}
	if req.Status != nil {
		if !validContestStatus(*req.Status) {
			return badRequest(c, "invalid status")
		}
		contest.Status = *req.Status
	}
	if req.BannerURL != nil {
		contest.BannerURL = *req.BannerURL
	}
	if contest.Title == "" {
		return badRequest(c, "title is required")
	}
	if !contest.EndDate.IsZero() && contest.EndDate.Before(contest.StartDate) {
		return badRequest(c, "endDate must not be before startDate")
	}

	if err := h.repo.UpdateContest(ctx, contest); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"contest": contest})
}

// DeleteContest handles DELETE /api/contests/:id. Categories, contestants and
// votes under the contest go with it.
func (h *Handlers) DeleteContest(c echo.Context) error {
	if err := h.repo.DeleteContest(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
