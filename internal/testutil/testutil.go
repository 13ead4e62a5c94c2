// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/unityvote/unityvote/internal/database"
	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestContest creates an active contest.
func NewTestContest(t *testing.T, repo *repository.Repository) *models.Contest {
	t.Helper()
	contest := &models.Contest{
		Title:     "Test Awards",
		StartDate: time.Now().UTC().Add(-time.Hour),
		EndDate:   time.Now().UTC().Add(24 * time.Hour),
		Status:    models.ContestActive,
	}
	require.NoError(t, repo.CreateContest(context.Background(), contest))
	return contest
}

// NewTestContestant creates a visible, active contestant in the contest,
// creating its category on the fly.
func NewTestContestant(t *testing.T, repo *repository.Repository, contestID, name string) *models.Contestant {
	t.Helper()
	ctx := context.Background()
	category, err := repo.FindOrCreateCategory(ctx, contestID, "Test Category")
	require.NoError(t, err)

	contestant := &models.Contestant{
		Name:       name,
		CategoryID: category.ID,
		IsVisible:  true,
		Status:     models.ContestantActive,
		ContestID:  contestID,
	}
	require.NoError(t, repo.CreateContestant(ctx, contestant))
	return contestant
}

// NewTestAdmin creates an active admin account with the given password.
func NewTestAdmin(t *testing.T, repo *repository.Repository, email, password, role string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test Admin",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, repo.CreateAdmin(context.Background(), admin))
	return admin
}

// SentMail records one delivery made through RecorderSender.
type SentMail struct {
	To   string
	Code string
	Kind string // "vote", "login", "invitation"
}

// RecorderSender captures outgoing mail instead of delivering it. The Fail
// flag makes every send error, for rollback tests.
type RecorderSender struct {
	mu   sync.Mutex
	Sent []SentMail
	Fail bool
}

func (r *RecorderSender) record(m SentMail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return errSendFailed
	}
	r.Sent = append(r.Sent, m)
	return nil
}

func (r *RecorderSender) SendVoteCode(_ context.Context, to, code string, _ time.Duration) error {
	return r.record(SentMail{To: to, Code: code, Kind: "vote"})
}

func (r *RecorderSender) SendLoginCode(_ context.Context, to, _, code string, _ time.Duration) error {
	return r.record(SentMail{To: to, Code: code, Kind: "login"})
}

func (r *RecorderSender) SendInvitation(_ context.Context, to, _, _, token, _ string) error {
	return r.record(SentMail{To: to, Code: token, Kind: "invitation"})
}

// Last returns the most recent delivery.
func (r *RecorderSender) Last(t *testing.T) SentMail {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.Sent)
	return r.Sent[len(r.Sent)-1]
}

type sendError string

func (e sendError) Error() string { return string(e) }

const errSendFailed = sendError("send failed")

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
