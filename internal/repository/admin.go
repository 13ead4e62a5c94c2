// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// CreateAdmin inserts a new admin account. An empty ID is filled in.
func (r *Repository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash, name, role, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		admin.ID, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.IsActive,
		admin.CreatedAt, admin.UpdatedAt)
	return wrapError(err)
}

// GetAdmin retrieves an admin by ID.
func (r *Repository) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.GetContext(ctx, &admin, `SELECT * FROM admins WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &admin, nil
}

// GetAdminByEmail retrieves an admin by email address.
func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.GetContext(ctx, &admin, `SELECT * FROM admins WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts, newest first.
func (r *Repository) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.SelectContext(ctx, &admins, `SELECT * FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return admins, nil
}

// CountAdmins returns the total number of admin accounts.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admins`)
	return count, err
}

// UpdateAdmin persists changes to name, role and active flag.
func (r *Repository) UpdateAdmin(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE admins SET name = ?, role = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		admin.Name, admin.Role, admin.IsActive, admin.UpdatedAt, admin.ID)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAdmin deletes an admin account and, via cascade, their sessions.
func (r *Repository) DeleteAdmin(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
