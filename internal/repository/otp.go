// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unityvote/unityvote/internal/models"
)

// ReplaceOTPCode inserts a code for a subject after deleting any earlier
// codes for the same subject, so at most one code is ever live.
func (r *Repository) ReplaceOTPCode(ctx context.Context, code *models.OTPCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	code.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE subject_kind = ? AND subject_id = ?`,
		code.SubjectKind, code.SubjectID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO otp_codes (id, subject_kind, subject_id, code, expires_at, verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		code.ID, code.SubjectKind, code.SubjectID, code.Code, code.ExpiresAt, code.Verified, code.CreatedAt)
	if err != nil {
		return wrapError(err)
	}

	return tx.Commit()
}

// GetLiveOTPCode returns the unconsumed code for a subject, if any.
func (r *Repository) GetLiveOTPCode(ctx context.Context, subjectKind, subjectID string) (*models.OTPCode, error) {
	var code models.OTPCode
	err := r.db.GetContext(ctx, &code,
		`SELECT * FROM otp_codes WHERE subject_kind = ? AND subject_id = ? AND verified = 0
		 ORDER BY created_at DESC LIMIT 1`,
		subjectKind, subjectID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &code, nil
}

// ConsumeOTPCode marks a code as used. Returns ErrNotFound when the code was
// already consumed, so a code can never be spent twice.
func (r *Repository) ConsumeOTPCode(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE otp_codes SET verified = 1 WHERE id = ? AND verified = 0`, id)
	if err != nil {
		return wrapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOTPCodesForSubject removes all codes bound to a subject.
func (r *Repository) DeleteOTPCodesForSubject(ctx context.Context, subjectKind, subjectID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_codes WHERE subject_kind = ? AND subject_id = ?`, subjectKind, subjectID)
	return err
}

// DeleteExpiredOTPCodes removes codes past their validity window. Storage
// hygiene only; expiry is always checked at validation time.
func (r *Repository) DeleteExpiredOTPCodes(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE expires_at < ?`, time.Now().UTC())
	return err
}
