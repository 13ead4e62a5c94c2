// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package otp issues and validates short-lived numeric codes. The same
// mechanism backs admin logins and voter email verification; a code is bound
// to exactly one subject and can be spent at most once.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
)

// ErrCodeInvalid is returned for unknown, expired, consumed or mismatched codes.
var ErrCodeInvalid = errors.New("invalid or expired code")

// Config controls code shape and lifetime.
type Config struct {
	Length int
	TTL    time.Duration
}

// Service issues and validates codes against the store.
type Service struct {
	repo *repository.Repository
	cfg  Config
}

// NewService creates a new OTP service.
func NewService(repo *repository.Repository, cfg Config) *Service {
	if cfg.Length <= 0 {
		cfg.Length = 6
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &Service{repo: repo, cfg: cfg}
}

// Issue generates a fresh code for the subject, superseding any earlier ones.
func (s *Service) Issue(ctx context.Context, subjectKind, subjectID string) (*models.OTPCode, error) {
	digits, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}

	code := &models.OTPCode{
		SubjectKind: subjectKind,
		SubjectID:   subjectID,
		Code:        digits,
		ExpiresAt:   time.Now().UTC().Add(s.cfg.TTL),
	}
	if err := s.repo.ReplaceOTPCode(ctx, code); err != nil {
		return nil, fmt.Errorf("storing code: %w", err)
	}
	return code, nil
}

// Validate checks a submitted code for the subject and consumes it on match.
// Wrong or expired submissions leave any live code untouched so the caller
// may retry until a fresh code is requested.
func (s *Service) Validate(ctx context.Context, subjectKind, subjectID, submitted string) error {
	code, err := s.repo.GetLiveOTPCode(ctx, subjectKind, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("loading code: %w", err)
	}

	if code.Expired(time.Now().UTC()) {
		// Expired rows are garbage-collected when seen; no sweep needed.
		_ = s.repo.DeleteOTPCodesForSubject(ctx, subjectKind, subjectID)
		return ErrCodeInvalid
	}

	if code.Code != submitted {
		return ErrCodeInvalid
	}

	if err := s.repo.ConsumeOTPCode(ctx, code.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("consuming code: %w", err)
	}
	return nil
}

// TTL returns the configured code lifetime, for use in notification text.
func (s *Service) TTL() time.Duration {
	return s.cfg.TTL
}

// generateSecureCode produces a cryptographically random digit string.
func (s *Service) generateSecureCode() (string, error) {
	digits := make([]byte, s.cfg.Length)
	for i := 0; i < s.cfg.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
