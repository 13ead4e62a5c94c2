// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// CreateInvitation inserts a new invitation. An empty ID is filled in.
func (r *Repository) CreateInvitation(ctx context.Context, invitation *models.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.NewString()
	}
	invitation.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, email, name, role, token, expires_at, accepted, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invitation.ID, invitation.Email, invitation.Name, invitation.Role, invitation.Token,
		invitation.ExpiresAt, invitation.Accepted, invitation.CreatedBy, invitation.CreatedAt)
	return wrapError(err)
}

// GetInvitationByToken retrieves an invitation by its token.
func (r *Repository) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.GetContext(ctx, &invitation, `SELECT * FROM invitations WHERE token = ?`, token)
	if err != nil {
		return nil, wrapError(err)
	}
	return &invitation, nil
}

// GetInvitationByEmail retrieves the invitation for an email address.
func (r *Repository) GetInvitationByEmail(ctx context.Context, email string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.GetContext(ctx, &invitation, `SELECT * FROM invitations WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &invitation, nil
}

// ListPendingInvitations returns unaccepted, unexpired invitations, newest first.
func (r *Repository) ListPendingInvitations(ctx context.Context) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.SelectContext(ctx, &invitations,
		`SELECT * FROM invitations WHERE accepted = 0 AND expires_at >= ? ORDER BY created_at DESC`,
		time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// MarkInvitationAccepted consumes an invitation. Returns ErrNotFound when the
// invitation was already accepted, making acceptance single-shot.
func (r *Repository) MarkInvitationAccepted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET accepted = 1 WHERE id = ? AND accepted = 0`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInvitation removes an invitation (revocation, re-invite, or rollback
// after a failed notification email).
func (r *Repository) DeleteInvitation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
