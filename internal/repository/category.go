// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// CreateCategory inserts a new category. An empty ID is filled in.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, cover_photo_url, icon, display_order, is_active, contest_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Description, category.CoverPhotoURL, category.Icon,
		category.DisplayOrder, category.IsActive, category.ContestID, category.CreatedAt, category.UpdatedAt)
	return wrapError(err)
}

// GetCategory retrieves a category by ID.
func (r *Repository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category, `SELECT * FROM categories WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by name within a contest.
func (r *Repository) GetCategoryByName(ctx context.Context, contestID, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.GetContext(ctx, &category,
		`SELECT * FROM categories WHERE contest_id = ? AND name = ?`, contestID, name)
	if err != nil {
		return nil, wrapError(err)
	}
	return &category, nil
}

// FindOrCreateCategory returns the category with the given name for a
// contest, creating it with defaults when absent. A concurrent create of the
// same name is resolved by re-reading after a conflict.
func (r *Repository) FindOrCreateCategory(ctx context.Context, contestID, name string) (*models.Category, error) {
	category, err := r.GetCategoryByName(ctx, contestID, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category = &models.Category{
		Name:        name,
		Description: fmt.Sprintf("Award category for %s", name),
		IsActive:    true,
		ContestID:   contestID,
	}
	if createErr := r.CreateCategory(ctx, category); createErr != nil {
		if errors.Is(createErr, ErrConflict) {
			return r.GetCategoryByName(ctx, contestID, name)
		}
		return nil, createErr
	}
	return category, nil
}

// ListCategories returns the categories of a contest ordered by display order.
func (r *Repository) ListCategories(ctx context.Context, contestID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories,
		`SELECT * FROM categories WHERE contest_id = ? ORDER BY display_order ASC, name ASC`, contestID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory persists changes to an existing category.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, cover_photo_url = ?, icon = ?, display_order = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		category.Name, category.Description, category.CoverPhotoURL, category.Icon,
		category.DisplayOrder, category.IsActive, category.UpdatedAt, category.ID)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory deletes a category and, via cascade, its contestants.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
