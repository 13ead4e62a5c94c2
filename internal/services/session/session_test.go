// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/config"
	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/services/session"
	"github.com/unityvote/unityvote/internal/testutil"
)

func newManager(t *testing.T) (*session.Manager, *models.Admin, requestFactory) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	admin := testutil.NewTestAdmin(t, repo, "boss@example.com", "password123", models.RoleAdmin)

	mgr, err := session.NewManager(repo, &config.AuthConfig{
		CookieName:      "_session",
		SessionDuration: 1,
	})
	require.NoError(t, err)

	factory := func(cookie *http.Cookie) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		return req
	}
	return mgr, admin, factory
}

type requestFactory func(*http.Cookie) *http.Request

func TestIssueAndValidate(t *testing.T) {
	mgr, admin, request := newManager(t)
	ctx := context.Background()

	sess, cookie, err := mgr.Issue(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "_session", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	gotAdmin, gotSess, err := mgr.Validate(ctx, request(cookie))
	require.NoError(t, err)
	assert.Equal(t, admin.ID, gotAdmin.ID)
	assert.Equal(t, sess.ID, gotSess.ID)
}

func TestValidateWithoutCookie(t *testing.T) {
	mgr, _, request := newManager(t)

	_, _, err := mgr.Validate(context.Background(), request(nil))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestValidateTamperedCookie(t *testing.T) {
	mgr, admin, request := newManager(t)
	ctx := context.Background()

	_, cookie, err := mgr.Issue(ctx, admin.ID)
	require.NoError(t, err)
	cookie.Value = "tampered" + cookie.Value

	_, _, err = mgr.Validate(ctx, request(cookie))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestValidateDestroyedSession(t *testing.T) {
	mgr, admin, request := newManager(t)
	ctx := context.Background()

	sess, cookie, err := mgr.Issue(ctx, admin.ID)
	require.NoError(t, err)

	cleared, err := mgr.Destroy(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, cleared.MaxAge)

	_, _, err = mgr.Validate(ctx, request(cookie))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestKeysAreIndependentAcrossManagers(t *testing.T) {
	mgr, admin, request := newManager(t)
	other, _, _ := newManager(t)
	ctx := context.Background()

	// A cookie signed with one ephemeral key fails under another.
	_, cookie, err := mgr.Issue(ctx, admin.ID)
	require.NoError(t, err)

	_, _, err = other.Validate(ctx, request(cookie))
	assert.ErrorIs(t, err, session.ErrNoSession)
}
