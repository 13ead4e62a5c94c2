// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// OTP subject kinds. The same short-lived numeric code mechanism backs both
// admin logins and voter email verification; the subject binds a code to
// exactly one admin or one vote attempt.
const (
	OTPSubjectAdmin = "admin"
	OTPSubjectVote  = "vote"
)

// OTPCode is a single-use numeric code bound to one subject. Issuing a new
// code supersedes any earlier codes for the same subject.
type OTPCode struct { //nolint:govet // fieldalignment: readability over optimization
	ID          string    `db:"id" json:"id"`
	SubjectKind string    `db:"subject_kind" json:"subjectKind"`
	SubjectID   string    `db:"subject_id" json:"subjectId"`
	Code        string    `db:"code" json:"-"`
	ExpiresAt   time.Time `db:"expires_at" json:"expiresAt"`
	Verified    bool      `db:"verified" json:"verified"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Expired reports whether the code is past its validity window.
func (o *OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
