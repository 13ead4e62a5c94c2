// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Vote status values. A vote starts pending and transitions to verified
// exactly once, on successful code confirmation.
const (
	VotePending  = "pending"
	VoteVerified = "verified"
	VoteRejected = "rejected"
)

// Vote is a single voting intent for (email, contest). At most one verified
// vote may exist per (email, contest_id) pair; the store enforces this with a
// unique constraint.
type Vote struct { //nolint:govet // fieldalignment: readability over optimization
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	ContestantID string    `db:"contestant_id" json:"contestantId"`
	ContestID    string    `db:"contest_id" json:"contestId"`
	Status       string    `db:"status" json:"status"`
	IPAddress    string    `db:"ip_address" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
