// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type inviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type acceptInviteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Invite handles POST /api/invitations. Full admins only.
func (h *Handlers) Invite(c echo.Context) error {
	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Name == "" || req.Role == "" {
		return badRequest(c, "email, name and role are required")
	}

	invitation, err := h.auth.Invite(c.Request().Context(), req.Email, req.Name, req.Role, CurrentAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"invitation": invitation})
}

// ListInvitations handles GET /api/invitations and returns pending ones.
func (h *Handlers) ListInvitations(c echo.Context) error {
	invitations, err := h.repo.ListPendingInvitations(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"invitations": invitations})
}

// RevokeInvitation handles DELETE /api/invitations/:id.
func (h *Handlers) RevokeInvitation(c echo.Context) error {
	if err := h.repo.DeleteInvitation(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// VerifyInvitation handles GET /api/invitations/verify?token=. The accept
// page calls this to show who the invitation is for before asking for a
// password.
func (h *Handlers) VerifyInvitation(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return badRequest(c, "token is required")
	}

	invitation, err := h.auth.VerifyInvitation(c.Request().Context(), token)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"email": invitation.Email,
		"name":  invitation.Name,
		"role":  invitation.Role,
	})
}

// AcceptInvitation handles POST /api/invitations/accept and creates the
// account plus a logged-in session.
func (h *Handlers) AcceptInvitation(c echo.Context) error {
	var req acceptInviteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Token == "" || req.Password == "" {
		return badRequest(c, "token and password are required")
	}

	admin, err := h.auth.AcceptInvitation(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return fail(c, err)
	}

	_, cookie, err := h.sessions.Issue(c.Request().Context(), admin.ID)
	if err != nil {
		return fail(c, err)
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusCreated, map[string]any{"admin": admin})
}
