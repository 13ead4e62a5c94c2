// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/handlers"
	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/adminauth"
	"github.com/unityvote/unityvote/internal/services/otp"
	"github.com/unityvote/unityvote/internal/services/session"
	"github.com/unityvote/unityvote/internal/services/voting"
	"github.com/unityvote/unityvote/internal/testutil"
)

type fixture struct {
	e      *echo.Echo
	h      *handlers.Handlers
	repo   *repository.Repository
	sender *testutil.RecorderSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	sender := &testutil.RecorderSender{}
	codes := otp.NewService(repo, otp.Config{})
	votes := voting.NewService(repo, codes, sender)
	auth := adminauth.NewService(repo, codes, sender, adminauth.Config{})
	sessions, err := session.NewManager(repo, &configAuth)
	require.NoError(t, err)

	return &fixture{
		e:      echo.New(),
		h:      handlers.New(repo, votes, auth, sessions),
		repo:   repo,
		sender: sender,
	}
}

func TestCastVote(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)
	contestant := testutil.NewTestContestant(t, f.repo, contest.ID, "Alice")

	body := `{"email":"voter@example.com","contestantId":"` + contestant.ID + `","contestId":"` + contest.ID + `"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(body))

	require.NoError(t, f.h.CastVote(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["voteId"])
}

func TestCastVoteMissingFields(t *testing.T) {
	f := newFixture(t)

	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(`{"email":"voter@example.com"}`))
	require.NoError(t, f.h.CastVote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastVoteUnknownContest(t *testing.T) {
	f := newFixture(t)

	body := `{"email":"voter@example.com","contestantId":"nope","contestId":"nope"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(body))
	require.NoError(t, f.h.CastVote(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmVote(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)
	contestant := testutil.NewTestContestant(t, f.repo, contest.ID, "Alice")

	body := `{"email":"voter@example.com","contestantId":"` + contestant.ID + `","contestId":"` + contest.ID + `"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(body))
	require.NoError(t, f.h.CastVote(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var cast map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cast))
	code := f.sender.Last(t).Code

	c, rec = testutil.NewEchoContext(f.e, http.MethodPatch, "/api/votes/:id/verify", strings.NewReader(`{"otp":"`+code+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(cast["voteId"])

	require.NoError(t, f.h.ConfirmVote(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second confirmation is rejected as a conflict.
	c, rec = testutil.NewEchoContext(f.e, http.MethodPatch, "/api/votes/:id/verify", strings.NewReader(`{"otp":"`+code+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(cast["voteId"])

	require.NoError(t, f.h.ConfirmVote(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConfirmVoteWrongCode(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)
	contestant := testutil.NewTestContestant(t, f.repo, contest.ID, "Alice")

	body := `{"email":"voter@example.com","contestantId":"` + contestant.ID + `","contestId":"` + contest.ID + `"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(body))
	require.NoError(t, f.h.CastVote(c))

	var cast map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cast))

	wrong := "000000"
	if f.sender.Last(t).Code == wrong {
		wrong = "111111"
	}
	c, rec = testutil.NewEchoContext(f.e, http.MethodPatch, "/api/votes/:id/verify", strings.NewReader(`{"otp":"`+wrong+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(cast["voteId"])

	require.NoError(t, f.h.ConfirmVote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateCastIsConflict(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)
	contestant := testutil.NewTestContestant(t, f.repo, contest.ID, "Alice")

	body := `{"email":"voter@example.com","contestantId":"` + contestant.ID + `","contestId":"` + contest.ID + `"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(body))
	require.NoError(t, f.h.CastVote(c))

	var cast map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cast))
	code := f.sender.Last(t).Code

	c, _ = testutil.NewEchoContext(f.e, http.MethodPatch, "/api/votes/:id/verify", strings.NewReader(`{"otp":"`+code+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(cast["voteId"])
	require.NoError(t, f.h.ConfirmVote(c))

	c, rec = testutil.NewEchoContext(f.e, http.MethodPost, "/api/votes", strings.NewReader(body))
	require.NoError(t, f.h.CastVote(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
