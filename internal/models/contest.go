// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models defines the persisted entities of the voting application.
package models

import "time"

// Contest status values. Voting is only permitted while a contest is active.
const (
	ContestUpcoming = "upcoming"
	ContestActive   = "active"
	ContestPaused   = "paused"
	ContestEnded    = "ended"
)

// Contest is a voting event with a set of award categories and contestants.
// Status transitions are admin-driven; there is no automatic expiry.
type Contest struct { //nolint:govet // fieldalignment: readability over optimization
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	Status      string    `db:"status" json:"status"`
	BannerURL   string    `db:"banner_url" json:"bannerUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ContestCounts carries the denormalized list-view counters for a contest.
type ContestCounts struct {
	Contestants int64 `db:"contestants" json:"contestants"`
	Votes       int64 `db:"votes" json:"votes"`
}
