// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package voting implements the two-phase vote verification protocol: a cast
// creates a pending vote and emails a one-time code; a confirmation with the
// correct code flips the vote to verified and moves the contestant's counter,
// atomically and at most once per (email, contest) pair.
package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/otp"
)

var (
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrContestNotFound      = errors.New("contest not found")
	ErrContestNotActive     = errors.New("voting is currently closed for this contest")
	ErrContestantNotFound   = errors.New("contestant not found")
	ErrContestantIneligible = errors.New("this contestant is not eligible for voting")
	ErrDuplicateVote        = errors.New("you have already voted in this contest")
	ErrVoteNotFound         = errors.New("vote not found")
	ErrAlreadyVerified      = errors.New("vote already verified")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
)

// CodeSender delivers a verification code to a voter.
type CodeSender interface {
	SendVoteCode(ctx context.Context, to, code string, ttl time.Duration) error
}

// Service orchestrates vote casting and confirmation.
type Service struct {
	repo   *repository.Repository
	codes  *otp.Service
	sender CodeSender
}

// NewService creates a new voting service.
func NewService(repo *repository.Repository, codes *otp.Service, sender CodeSender) *Service {
	return &Service{repo: repo, codes: codes, sender: sender}
}

// CastVote records a pending vote for (email, contest) and sends the voter a
// one-time code. A still-pending earlier attempt for the same pair is
// superseded; a verified one makes the cast fail with ErrDuplicateVote.
func (s *Service) CastVote(ctx context.Context, email, contestantID, contestID, ipAddress string) (*models.Vote, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	contest, err := s.repo.GetContest(ctx, contestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("loading contest: %w", err)
	}
	if contest.Status != models.ContestActive {
		return nil, ErrContestNotActive
	}

	contestant, err := s.repo.GetContestant(ctx, contestantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContestantNotFound
		}
		return nil, fmt.Errorf("loading contestant: %w", err)
	}
	if contestant.ContestID != contestID {
		return nil, ErrContestantNotFound
	}
	if !contestant.Eligible() {
		return nil, ErrContestantIneligible
	}

	// Early rejection; the store constraint closes the race below.
	existing, err := s.repo.GetVoteByEmailAndContest(ctx, email, contestID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing vote: %w", err)
	}
	if existing != nil && existing.Status == models.VoteVerified {
		return nil, ErrDuplicateVote
	}

	vote := &models.Vote{
		Email:        email,
		ContestantID: contestantID,
		ContestID:    contestID,
		IPAddress:    ipAddress,
	}
	if err := s.repo.CreateVoteSuperseding(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrVoteVerified) || errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateVote
		}
		return nil, fmt.Errorf("creating vote: %w", err)
	}

	code, err := s.codes.Issue(ctx, models.OTPSubjectVote, vote.ID)
	if err != nil {
		s.rollbackCast(ctx, vote)
		return nil, fmt.Errorf("issuing code: %w", err)
	}

	if err := s.sender.SendVoteCode(ctx, email, code.Code, s.codes.TTL()); err != nil {
		// No half-created state: remove the vote if the code cannot reach the voter.
		s.rollbackCast(ctx, vote)
		return nil, fmt.Errorf("sending verification code: %w", err)
	}

	slog.Info("vote_cast", "vote_id", vote.ID, "contest_id", contestID, "contestant_id", contestantID)
	return vote, nil
}

// ConfirmVote validates the submitted code for a pending vote and, on
// success, marks it verified and updates the contestant's counter as one
// atomic unit. Confirming an already verified vote is a rejected no-op.
func (s *Service) ConfirmVote(ctx context.Context, voteID, submitted string) (*models.Vote, error) {
	vote, err := s.repo.GetVote(ctx, voteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, fmt.Errorf("loading vote: %w", err)
	}
	if vote.Status == models.VoteVerified {
		return nil, ErrAlreadyVerified
	}

	if err := s.codes.Validate(ctx, models.OTPSubjectVote, vote.ID, submitted); err != nil {
		if errors.Is(err, otp.ErrCodeInvalid) {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("validating code: %w", err)
	}

	verified, err := s.repo.VerifyVote(ctx, vote.ID)
	if err != nil {
		if errors.Is(err, repository.ErrVoteVerified) {
			return nil, ErrAlreadyVerified
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, fmt.Errorf("verifying vote: %w", err)
	}

	// Consumed codes are of no further use.
	_ = s.repo.DeleteOTPCodesForSubject(ctx, models.OTPSubjectVote, vote.ID)

	slog.Info("vote_verified", "vote_id", verified.ID, "contestant_id", verified.ContestantID)
	return verified, nil
}

// rollbackCast removes a freshly created vote and its codes after a failed
// code issue or delivery.
func (s *Service) rollbackCast(ctx context.Context, vote *models.Vote) {
	_ = s.repo.DeleteOTPCodesForSubject(ctx, models.OTPSubjectVote, vote.ID)
	if err := s.repo.DeleteVote(ctx, vote.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("vote_rollback_failed", "vote_id", vote.ID, "error", err)
	}
}
