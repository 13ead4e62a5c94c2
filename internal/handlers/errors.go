// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/adminauth"
	"github.com/unityvote/unityvote/internal/services/voting"
)

// statusFor maps service errors to HTTP status codes. Anything unmapped is an
// internal error whose detail stays out of the response body.
func statusFor(err error) int {
	switch {
	case errors.Is(err, voting.ErrVoteNotFound),
		errors.Is(err, voting.ErrContestNotFound),
		errors.Is(err, voting.ErrContestantNotFound),
		errors.Is(err, adminauth.ErrInvitationNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, voting.ErrDuplicateVote),
		errors.Is(err, voting.ErrAlreadyVerified),
		errors.Is(err, adminauth.ErrInvitationAccepted),
		errors.Is(err, adminauth.ErrInvitationPending),
		errors.Is(err, adminauth.ErrEmailTaken),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, voting.ErrContestNotActive),
		errors.Is(err, voting.ErrContestantIneligible),
		errors.Is(err, adminauth.ErrInvitationExpired):
		return http.StatusForbidden
	case errors.Is(err, voting.ErrInvalidEmail),
		errors.Is(err, voting.ErrInvalidOrExpiredCode),
		errors.Is(err, adminauth.ErrInvalidRole),
		errors.Is(err, adminauth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, adminauth.ErrInvalidCredentials),
		errors.Is(err, adminauth.ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.Is(err, adminauth.ErrAccountDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fail writes a JSON error response for a service error.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request_failed", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		msg = "internal server error"
	}
	return c.JSON(status, map[string]string{"error": msg})
}

// badRequest writes a 400 JSON error response.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
