// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type castVoteRequest struct {
	Email        string `json:"email"`
	ContestantID string `json:"contestantId"`
	ContestID    string `json:"contestId"`
}

type confirmVoteRequest struct {
	OTP string `json:"otp"`
}

// CastVote handles POST /api/votes. It records a pending vote and emails the
// voter a verification code.
func (h *Handlers) CastVote(c echo.Context) error {
	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email == "" || req.ContestantID == "" || req.ContestID == "" {
		return badRequest(c, "email, contestantId and contestId are required")
	}

	vote, err := h.votes.CastVote(c.Request().Context(), req.Email, req.ContestantID, req.ContestID, c.RealIP())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"voteId":  vote.ID,
		"message": "Verification code sent. Check your email to confirm your vote.",
	})
}

// ConfirmVote handles PATCH /api/votes/:id/verify. On a matching code it marks
// the vote verified and updates the contestant's tally.
func (h *Handlers) ConfirmVote(c echo.Context) error {
	var req confirmVoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.OTP == "" {
		return badRequest(c, "otp is required")
	}

	vote, err := h.votes.ConfirmVote(c.Request().Context(), c.Param("id"), req.OTP)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"vote":    vote,
		"message": "Your vote has been confirmed.",
	})
}
