// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends transactional mail (verification codes, invitations)
// via SMTP.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/unityvote/unityvote/internal/config"
)

// Service handles outgoing email.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SendVoteCode delivers a vote verification code to a voter.
func (s *Service) SendVoteCode(ctx context.Context, to, code string, ttl time.Duration) error {
	subject := "Confirm your Unity Vote"
	body := fmt.Sprintf(
		"Your Unity Vote verification code is: %s\n\n"+
			"Enter this code to confirm your vote. It expires in %d minutes.\n\n"+
			"If you didn't cast a vote, you can safely ignore this email.\n\n"+
			"Unity Summit & Awards",
		code, int(ttl.Minutes()))
	return s.send(ctx, to, subject, body)
}

// SendLoginCode delivers an admin login code.
func (s *Service) SendLoginCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	subject := "Your Unity Vote Admin Login Code"
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your Unity Vote admin login code is: %s\n\n"+
			"This code will expire in %d minutes.\n\n"+
			"If you didn't request this code, please ignore this email.\n\n"+
			"Unity Summit & Awards",
		name, code, int(ttl.Minutes()))
	return s.send(ctx, to, subject, body)
}

// SendInvitation delivers an admin invitation with its acceptance link.
func (s *Service) SendInvitation(ctx context.Context, to, name, role, token, invitedBy string) error {
	inviteURL := fmt.Sprintf("%s/admin/accept-invite?token=%s", s.baseURL, token)

	subject := fmt.Sprintf("You're invited to join Unity Vote as %s", role)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"%s has invited you to join the Unity Vote admin team as a %s.\n\n"+
			"Click this link to accept your invitation and set up your account:\n%s\n\n"+
			"This invitation will expire in 7 days.\n\n"+
			"If you didn't expect this invitation, you can safely ignore this email.\n\n"+
			"Unity Summit & Awards",
		name, invitedBy, role, inviteURL)
	return s.send(ctx, to, subject, body)
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	// Build client options
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Configure TLS based on config and port
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	// Add authentication if credentials are provided
	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
