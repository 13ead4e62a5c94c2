// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unityvote/unityvote/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	AdminID string `json:"adminId"`
	OTP     string `json:"otp"`
}

// Login handles POST /api/auth/login. With the password accepted it emails a
// login code; the session is only created after VerifyOTP.
func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	if !result.OTPRequired {
		_, cookie, err := h.sessions.Issue(c.Request().Context(), result.Admin.ID)
		if err != nil {
			return fail(c, err)
		}
		c.SetCookie(cookie)
		return c.JSON(http.StatusOK, map[string]any{
			"admin":       result.Admin,
			"otpRequired": false,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"adminId":     result.Admin.ID,
		"otpRequired": true,
		"message":     "A login code has been sent to your email.",
	})
}

// VerifyOTP handles POST /api/auth/verify-otp and creates the session.
func (h *Handlers) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.AdminID == "" || req.OTP == "" {
		return badRequest(c, "adminId and otp are required")
	}

	admin, err := h.auth.VerifyOTP(c.Request().Context(), req.AdminID, req.OTP)
	if err != nil {
		return fail(c, err)
	}

	_, cookie, err := h.sessions.Issue(c.Request().Context(), admin.ID)
	if err != nil {
		return fail(c, err)
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]any{"admin": admin})
}

// Session handles GET /api/auth/session and returns the logged-in admin.
func (h *Handlers) Session(c echo.Context) error {
	admin := CurrentAdmin(c)
	if admin == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, map[string]any{"admin": admin})
}

// Logout handles DELETE /api/auth/session.
func (h *Handlers) Logout(c echo.Context) error {
	sess := CurrentSession(c)
	if sess == nil {
		c.SetCookie(h.sessions.ClearCookie())
		return c.NoContent(http.StatusNoContent)
	}

	cookie, err := h.sessions.Destroy(c.Request().Context(), sess.ID)
	if err != nil {
		return fail(c, err)
	}
	c.SetCookie(cookie)
	return c.NoContent(http.StatusNoContent)
}

// Context keys used by the auth middleware to stash the resolved admin.
const (
	ctxKeyAdmin   = "admin"
	ctxKeySession = "adminSession"
)

// CurrentAdmin returns the admin resolved by the auth middleware, or nil.
func CurrentAdmin(c echo.Context) *models.Admin {
	admin, _ := c.Get(ctxKeyAdmin).(*models.Admin)
	return admin
}

// CurrentSession returns the session resolved by the auth middleware, or nil.
func CurrentSession(c echo.Context) *models.Session {
	sess, _ := c.Get(ctxKeySession).(*models.Session)
	return sess
}

// SetCurrentAdmin stashes the resolved admin and session on the echo context.
func SetCurrentAdmin(c echo.Context, admin *models.Admin, sess *models.Session) {
	c.Set(ctxKeyAdmin, admin)
	c.Set(ctxKeySession, sess)
}
