// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// CreateContest inserts a new contest. An empty ID is filled in.
func (r *Repository) CreateContest(ctx context.Context, contest *models.Contest) error {
	if contest.ID == "" {
		contest.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	contest.CreatedAt = now
	contest.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contests (id, title, description, start_date, end_date, status, banner_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contest.ID, contest.Title, contest.Description, contest.StartDate, contest.EndDate,
		contest.Status, contest.BannerURL, contest.CreatedAt, contest.UpdatedAt)
	return wrapError(err)
}

// GetContest retrieves a contest by ID.
func (r *Repository) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	var contest models.Contest
	err := r.db.GetContext(ctx, &contest, `SELECT * FROM contests WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &contest, nil
}

// ListContests returns contests ordered by start date (newest first),
// optionally filtered by status.
func (r *Repository) ListContests(ctx context.Context, status string) ([]models.Contest, error) {
	var contests []models.Contest
	var err error
	if status != "" {
		err = r.db.SelectContext(ctx, &contests,
			`SELECT * FROM contests WHERE status = ? ORDER BY start_date DESC`, status)
	} else {
		err = r.db.SelectContext(ctx, &contests,
			`SELECT * FROM contests ORDER BY start_date DESC`)
	}
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// UpdateContest persists changes to an existing contest.
func (r *Repository) UpdateContest(ctx context.Context, contest *models.Contest) error {
	contest.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE contests SET title = ?, description = ?, start_date = ?, end_date = ?, status = ?, banner_url = ?, updated_at = ?
		 WHERE id = ?`,
		contest.Title, contest.Description, contest.StartDate, contest.EndDate,
		contest.Status, contest.BannerURL, contest.UpdatedAt, contest.ID)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContest deletes a contest. Dependent categories, contestants and
// votes are removed by the store's cascade rules.
func (r *Repository) DeleteContest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ContestCounts returns the contestant and verified-vote counters for a contest.
func (r *Repository) ContestCounts(ctx context.Context, id string) (*models.ContestCounts, error) {
	var counts models.ContestCounts
	err := r.db.GetContext(ctx, &counts,
		`SELECT
			(SELECT COUNT(*) FROM contestants WHERE contest_id = ?) AS contestants,
			(SELECT COUNT(*) FROM votes WHERE contest_id = ? AND status = 'verified') AS votes`,
		id, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &counts, nil
}
