// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/unityvote/unityvote/internal/models"
)

// CreateSession inserts a server-side session row.
func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	session.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, admin_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.AdminID, session.ExpiresAt, session.CreatedAt)
	return wrapError(err)
}

// GetSession retrieves a session by its opaque ID.
func (r *Repository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `SELECT * FROM sessions WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &session, nil
}

// DeleteSession removes a session (logout).
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return wrapError(err)
}

// DeleteExpiredSessions removes sessions past their deadline.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
