// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package adminauth implements the admin portal's authentication flows:
// password plus emailed one-time code login, and invitation-based account
// provisioning. Accounts can only be created through an invitation or the
// startup bootstrap.
package adminauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/otp"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidOTP         = errors.New("invalid or expired code")

	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationAccepted = errors.New("invitation already used")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrInvitationPending  = errors.New("a pending invitation already exists for this email")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// dummyHash is compared against when the email is unknown so that login
// timing does not reveal which accounts exist.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Notifier delivers login codes and invitations.
type Notifier interface {
	SendLoginCode(ctx context.Context, to, name, code string, ttl time.Duration) error
	SendInvitation(ctx context.Context, to, name, role, token, invitedBy string) error
}

// LoginResult reports the outcome of a password check. When OTPRequired is
// false the caller may create a session immediately.
type LoginResult struct {
	Admin       *models.Admin
	OTPRequired bool
}

// Config controls the invitation lifetime and the login bypass.
type Config struct {
	InvitationTTL time.Duration
	// AutoVerifyOTP disables the emailed second factor. Development only.
	AutoVerifyOTP bool
}

// Service implements admin login and provisioning.
type Service struct {
	repo     *repository.Repository
	codes    *otp.Service
	notifier Notifier
	cfg      Config
}

// NewService creates a new admin auth service.
func NewService(repo *repository.Repository, codes *otp.Service, notifier Notifier, cfg Config) *Service {
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = 7 * 24 * time.Hour
	}
	return &Service{repo: repo, codes: codes, notifier: notifier, cfg: cfg}
}

// Login checks the password for an admin account. On success it either emails
// a one-time code (the normal path) or, with auto-verify enabled, reports that
// no second factor is needed.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn the same bcrypt cost as a real comparison.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		slog.Info("login_failed", "email", email)
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	if s.cfg.AutoVerifyOTP {
		slog.Warn("login_otp_bypassed", "admin_id", admin.ID)
		return &LoginResult{Admin: admin, OTPRequired: false}, nil
	}

	code, err := s.codes.Issue(ctx, models.OTPSubjectAdmin, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing login code: %w", err)
	}
	if err := s.notifier.SendLoginCode(ctx, admin.Email, admin.Name, code.Code, s.codes.TTL()); err != nil {
		// An undeliverable code is worthless and would only lock the admin
		// into a failing verify step.
		_ = s.repo.DeleteOTPCodesForSubject(ctx, models.OTPSubjectAdmin, admin.ID)
		return nil, fmt.Errorf("sending login code: %w", err)
	}

	slog.Info("login_code_sent", "admin_id", admin.ID)
	return &LoginResult{Admin: admin, OTPRequired: true}, nil
}

// VerifyOTP checks the emailed login code and returns the admin on success.
func (s *Service) VerifyOTP(ctx context.Context, adminID, submitted string) (*models.Admin, error) {
	admin, err := s.repo.GetAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("loading admin: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.codes.Validate(ctx, models.OTPSubjectAdmin, admin.ID, submitted); err != nil {
		if errors.Is(err, otp.ErrCodeInvalid) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("validating login code: %w", err)
	}

	_ = s.repo.DeleteOTPCodesForSubject(ctx, models.OTPSubjectAdmin, admin.ID)
	slog.Info("login_verified", "admin_id", admin.ID)
	return admin, nil
}

// Invite creates an invitation for a new admin account and emails the
// acceptance link. A still-pending invitation for the same email is replaced;
// an existing account makes the call fail.
func (s *Service) Invite(ctx context.Context, email, name, role string, invitedBy *models.Admin) (*models.Invitation, error) {
	if role != models.RoleAdmin && role != models.RoleManager {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetAdminByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing admin: %w", err)
	}

	// At most one invitation row per email; replace stale ones, keep live ones.
	if existing, err := s.repo.GetInvitationByEmail(ctx, email); err == nil {
		if !existing.Accepted && !existing.Expired(time.Now().UTC()) {
			return nil, ErrInvitationPending
		}
		if err := s.repo.DeleteInvitation(ctx, existing.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("replacing invitation: %w", err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing invitation: %w", err)
	}

	invitation := &models.Invitation{
		Email:     email,
		Name:      name,
		Role:      role,
		Token:     newInviteToken(),
		ExpiresAt: time.Now().UTC().Add(s.cfg.InvitationTTL),
		CreatedBy: invitedBy.ID,
	}
	if err := s.repo.CreateInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("creating invitation: %w", err)
	}

	if err := s.notifier.SendInvitation(ctx, email, name, role, invitation.Token, invitedBy.Name); err != nil {
		// The invitee never saw the token; leave no orphaned row behind.
		_ = s.repo.DeleteInvitation(ctx, invitation.ID)
		return nil, fmt.Errorf("sending invitation: %w", err)
	}

	slog.Info("invitation_sent", "invitation_id", invitation.ID, "role", role, "invited_by", invitedBy.ID)
	return invitation, nil
}

// VerifyInvitation resolves a token to its invitation if it is still usable.
func (s *Service) VerifyInvitation(ctx context.Context, token string) (*models.Invitation, error) {
	invitation, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("loading invitation: %w", err)
	}
	if invitation.Accepted {
		return nil, ErrInvitationAccepted
	}
	if invitation.Expired(time.Now().UTC()) {
		return nil, ErrInvitationExpired
	}
	return invitation, nil
}

// AcceptInvitation consumes an invitation token and creates the account.
func (s *Service) AcceptInvitation(ctx context.Context, token, password string) (*models.Admin, error) {
	invitation, err := s.VerifyInvitation(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// Consume the token first; a second concurrent accept loses here.
	if err := s.repo.MarkInvitationAccepted(ctx, invitation.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvitationAccepted
		}
		return nil, fmt.Errorf("consuming invitation: %w", err)
	}

	admin := &models.Admin{
		Email:        invitation.Email,
		PasswordHash: string(hash),
		Name:         invitation.Name,
		Role:         invitation.Role,
		IsActive:     true,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("invitation_accepted", "admin_id", admin.ID, "role", admin.Role)
	return admin, nil
}

// EnsureAdmin creates the bootstrap admin account when the store holds no
// accounts at all. Called once at startup.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if len(password) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}

	slog.Info("bootstrap_admin_created", "admin_id", admin.ID)
	return nil
}

// newInviteToken returns a URL-safe random invitation token.
func newInviteToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
