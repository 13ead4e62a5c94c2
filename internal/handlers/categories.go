// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListCategories handles GET /api/contests/:id/categories.
func (h *Handlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	contest, err := h.repo.GetContest(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	categories, err := h.repo.ListCategories(ctx, contest.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// UpdateCategory handles PATCH /api/categories/:id.
func (h *Handlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	category, err := h.repo.GetCategory(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		CoverPhotoURL *string `json:"coverPhotoUrl"`
		Icon          *string `json:"icon"`
		DisplayOrder  *int64  `json:"displayOrder"`
		IsActive      *bool   `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.CoverPhotoURL != nil {
		category.CoverPhotoURL = *req.CoverPhotoURL
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if category.Name == "" {
		return badRequest(c, "name is required")
	}

	if err := h.repo.UpdateCategory(ctx, category); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"category": category})
}

// DeleteCategory handles DELETE /api/categories/:id. Contestants in the
// category go with it.
func (h *Handlers) DeleteCategory(c echo.Context) error {
	if err := h.repo.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
