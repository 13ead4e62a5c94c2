// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Contestant status values. Withdrawal gates voting eligibility but keeps data.
const (
	ContestantActive    = "active"
	ContestantWithdrawn = "withdrawn"
)

// Contestant is a nominee in a contest. Votes is a denormalized counter; the
// authoritative source is the count of verified Vote rows for the contestant,
// and the two are kept in step inside the vote verification transaction.
type Contestant struct { //nolint:govet // fieldalignment: readability over optimization
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Bio         string    `db:"bio" json:"bio"`
	CategoryID  string    `db:"category_id" json:"categoryId"`
	PhotoURL    string    `db:"photo_url" json:"photoUrl"`
	Email       string    `db:"email" json:"email"`
	LinkedinURL string    `db:"linkedin_url" json:"linkedinUrl"`
	Votes       int64     `db:"votes" json:"votes"`
	IsVisible   bool      `db:"is_visible" json:"isVisible"`
	Status      string    `db:"status" json:"status"`
	ContestID   string    `db:"contest_id" json:"contestId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Eligible reports whether the contestant can currently receive votes.
func (c *Contestant) Eligible() bool {
	return c.Status == ContestantActive && c.IsVisible
}
