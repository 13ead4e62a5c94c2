// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Category is an award category within a contest. Categories are created
// implicitly when a contestant references a name not yet present for the
// contest (find-or-create), so (contest_id, name) is unique.
type Category struct { //nolint:govet // fieldalignment: readability over optimization
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	CoverPhotoURL string    `db:"cover_photo_url" json:"coverPhotoUrl"`
	Icon          string    `db:"icon" json:"icon"`
	DisplayOrder  int64     `db:"display_order" json:"displayOrder"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	ContestID     string    `db:"contest_id" json:"contestId"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
