// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// ContestantFilter narrows ListContestants. Zero values mean "no filter".
type ContestantFilter struct {
	ContestID  string
	CategoryID string
	Status     string
	IsVisible  *bool
}

// CreateContestant inserts a new contestant. An empty ID is filled in.
func (r *Repository) CreateContestant(ctx context.Context, contestant *models.Contestant) error {
	if contestant.ID == "" {
		contestant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	contestant.CreatedAt = now
	contestant.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contestants (id, name, bio, category_id, photo_url, email, linkedin_url, votes, is_visible, status, contest_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contestant.ID, contestant.Name, contestant.Bio, contestant.CategoryID, contestant.PhotoURL,
		contestant.Email, contestant.LinkedinURL, contestant.Votes, contestant.IsVisible,
		contestant.Status, contestant.ContestID, contestant.CreatedAt, contestant.UpdatedAt)
	return wrapError(err)
}

// GetContestant retrieves a contestant by ID.
func (r *Repository) GetContestant(ctx context.Context, id string) (*models.Contestant, error) {
	var contestant models.Contestant
	err := r.db.GetContext(ctx, &contestant, `SELECT * FROM contestants WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &contestant, nil
}

// ListContestants returns contestants matching the filter, leaderboard
// ordered (votes descending, then name).
func (r *Repository) ListContestants(ctx context.Context, filter ContestantFilter) ([]models.Contestant, error) {
	query := `SELECT * FROM contestants`
	var clauses []string
	var args []any

	if filter.ContestID != "" {
		clauses = append(clauses, "contest_id = ?")
		args = append(args, filter.ContestID)
	}
	if filter.CategoryID != "" {
		clauses = append(clauses, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.IsVisible != nil {
		clauses = append(clauses, "is_visible = ?")
		args = append(args, *filter.IsVisible)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY votes DESC, name ASC"

	var contestants []models.Contestant
	if err := r.db.SelectContext(ctx, &contestants, query, args...); err != nil {
		return nil, err
	}
	return contestants, nil
}

// UpdateContestant persists changes to an existing contestant. The votes
// counter is deliberately not written here; it only moves inside the vote
// verification transaction.
func (r *Repository) UpdateContestant(ctx context.Context, contestant *models.Contestant) error {
	contestant.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE contestants SET name = ?, bio = ?, category_id = ?, photo_url = ?, email = ?, linkedin_url = ?, is_visible = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		contestant.Name, contestant.Bio, contestant.CategoryID, contestant.PhotoURL,
		contestant.Email, contestant.LinkedinURL, contestant.IsVisible, contestant.Status,
		contestant.UpdatedAt, contestant.ID)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContestant deletes a contestant and, via cascade, their votes.
func (r *Repository) DeleteContestant(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contestants WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
