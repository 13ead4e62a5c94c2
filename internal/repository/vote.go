// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// ErrVoteVerified is returned when a write targets a vote that already left
// the pending state.
var ErrVoteVerified = errors.New("vote already verified")

// GetVote retrieves a vote by ID.
func (r *Repository) GetVote(ctx context.Context, id string) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.GetContext(ctx, &vote, `SELECT * FROM votes WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &vote, nil
}

// GetVoteByEmailAndContest retrieves the vote for an (email, contest) pair.
func (r *Repository) GetVoteByEmailAndContest(ctx context.Context, email, contestID string) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.GetContext(ctx, &vote,
		`SELECT * FROM votes WHERE email = ? AND contest_id = ?`, email, contestID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &vote, nil
}

// CreateVoteSuperseding inserts a pending vote for (email, contest),
// replacing a still-pending earlier attempt together with its codes in one
// transaction. A verified vote for the pair is never replaced; the unique
// constraint then surfaces as ErrConflict so a concurrent duplicate insert
// cannot slip through either.
func (r *Repository) CreateVoteSuperseding(ctx context.Context, vote *models.Vote) error {
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	vote.Status = models.VotePending
	vote.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var stale models.Vote
	err = tx.GetContext(ctx, &stale,
		`SELECT * FROM votes WHERE email = ? AND contest_id = ?`, vote.Email, vote.ContestID)
	switch {
	case err == nil:
		if stale.Status != models.VotePending {
			return ErrVoteVerified
		}
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM otp_codes WHERE subject_kind = ? AND subject_id = ?`,
			models.OTPSubjectVote, stale.ID); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, stale.ID); err != nil {
			return err
		}
	case errors.Is(wrapError(err), ErrNotFound):
		// First attempt for this pair.
	default:
		return wrapError(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, email, contestant_id, contest_id, status, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		vote.ID, vote.Email, vote.ContestantID, vote.ContestID, vote.Status, vote.IPAddress, vote.CreatedAt)
	if err != nil {
		return wrapError(err)
	}

	return tx.Commit()
}

// DeleteVote removes a vote row, e.g. to roll back a cast whose code email
// could not be delivered.
func (r *Repository) DeleteVote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyVote flips a pending vote to verified and re-derives the owning
// contestant's counter from the verified vote rows, as one atomic unit.
// The guarded UPDATE means a concurrent double confirmation moves the
// counter exactly once; the loser gets ErrVoteVerified.
func (r *Repository) VerifyVote(ctx context.Context, id string) (*models.Vote, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var vote models.Vote
	if err = tx.GetContext(ctx, &vote, `SELECT * FROM votes WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE votes SET status = ? WHERE id = ? AND status = ?`,
		models.VoteVerified, id, models.VotePending)
	if err != nil {
		return nil, wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrVoteVerified
	}

	// Derive the counter instead of incrementing so it cannot drift from the
	// authoritative vote rows.
	_, err = tx.ExecContext(ctx,
		`UPDATE contestants
		 SET votes = (SELECT COUNT(*) FROM votes WHERE contestant_id = ? AND status = ?)
		 WHERE id = ?`,
		vote.ContestantID, models.VoteVerified, vote.ContestantID)
	if err != nil {
		return nil, wrapError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	vote.Status = models.VoteVerified
	return &vote, nil
}

// CountVerifiedVotes returns the number of verified votes for a contestant.
func (r *Repository) CountVerifiedVotes(ctx context.Context, contestantID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM votes WHERE contestant_id = ? AND status = ?`,
		contestantID, models.VoteVerified)
	return count, err
}
