// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Invitation is a one-shot signup capability for the admin portal. A token is
// consumed by setting Accepted; accepted invitations are terminal and can
// never create a second account.
type Invitation struct { //nolint:govet // fieldalignment: readability over optimization
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	Accepted  bool      `db:"accepted" json:"accepted"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Expired reports whether the invitation is past its deadline.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
