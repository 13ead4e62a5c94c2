// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unityvote/unityvote/internal/models"
)

// ListAdmins handles GET /api/admins. Full admins only.
func (h *Handlers) ListAdmins(c echo.Context) error {
	admins, err := h.repo.ListAdmins(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"admins": admins})
}

// UpdateAdmin handles PATCH /api/admins/:id (name, role, active flag).
// Admins cannot demote or deactivate themselves.
func (h *Handlers) UpdateAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	admin, err := h.repo.GetAdmin(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Name     *string `json:"name"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	self := CurrentAdmin(c).ID == admin.ID
	if req.Name != nil {
		admin.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleManager {
			return badRequest(c, "invalid role")
		}
		if self && *req.Role != admin.Role {
			return badRequest(c, "cannot change your own role")
		}
		admin.Role = *req.Role
	}
	if req.IsActive != nil {
		if self && !*req.IsActive {
			return badRequest(c, "cannot deactivate your own account")
		}
		admin.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateAdmin(ctx, admin); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"admin": admin})
}

// DeleteAdmin handles DELETE /api/admins/:id. Self-deletion is rejected.
func (h *Handlers) DeleteAdmin(c echo.Context) error {
	id := c.Param("id")
	if CurrentAdmin(c).ID == id {
		return badRequest(c, "cannot delete your own account")
	}
	if err := h.repo.DeleteAdmin(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
