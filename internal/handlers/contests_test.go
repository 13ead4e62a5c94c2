// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/testutil"
)

func TestCreateContest(t *testing.T) {
	f := newFixture(t)

	body := `{"title":"Spring Awards","status":"upcoming","startDate":"2026-03-01T00:00:00Z","endDate":"2026-04-01T00:00:00Z"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/contests", strings.NewReader(body))
	require.NoError(t, f.h.CreateContest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Contest models.Contest `json:"contest"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Contest.ID)
	assert.Equal(t, models.ContestUpcoming, resp.Contest.Status)
}

func TestCreateContestBadDates(t *testing.T) {
	f := newFixture(t)

	body := `{"title":"Backwards","startDate":"2026-04-01T00:00:00Z","endDate":"2026-03-01T00:00:00Z"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/contests", strings.NewReader(body))
	require.NoError(t, f.h.CreateContest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateContestPartial(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)

	c, rec := testutil.NewEchoContext(f.e, http.MethodPatch, "/api/contests/:id", strings.NewReader(`{"status":"ended"}`))
	c.SetParamNames("id")
	c.SetParamValues(contest.ID)
	require.NoError(t, f.h.UpdateContest(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Contest models.Contest `json:"contest"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ContestEnded, resp.Contest.Status)
	// Untouched fields survive the partial update.
	assert.Equal(t, contest.Title, resp.Contest.Title)
}

func TestGetContestIncludesCounts(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)
	testutil.NewTestContestant(t, f.repo, contest.ID, "Alice")

	c, rec := testutil.NewEchoContext(f.e, http.MethodGet, "/api/contests/:id", nil)
	c.SetParamNames("id")
	c.SetParamValues(contest.ID)
	require.NoError(t, f.h.GetContest(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Counts models.ContestCounts `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Counts.Contestants)
	assert.EqualValues(t, 0, resp.Counts.Votes)
}

func TestDeleteContest(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)

	c, rec := testutil.NewEchoContext(f.e, http.MethodDelete, "/api/contests/:id", nil)
	c.SetParamNames("id")
	c.SetParamValues(contest.ID)
	require.NoError(t, f.h.DeleteContest(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = testutil.NewEchoContext(f.e, http.MethodDelete, "/api/contests/:id", nil)
	c.SetParamNames("id")
	c.SetParamValues(contest.ID)
	require.NoError(t, f.h.DeleteContest(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateContestantCreatesCategory(t *testing.T) {
	f := newFixture(t)
	contest := testutil.NewTestContest(t, f.repo)

	body := `{"name":"Alice","category":"Best Newcomer","contestId":"` + contest.ID + `"}`
	c, rec := testutil.NewEchoContext(f.e, http.MethodPost, "/api/contestants", strings.NewReader(body))
	require.NoError(t, f.h.CreateContestant(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Contestant models.Contestant `json:"contestant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Contestant.IsVisible)
	assert.Equal(t, models.ContestantActive, resp.Contestant.Status)

	// A second contestant with the same category name reuses it.
	body = `{"name":"Bob","category":"Best Newcomer","contestId":"` + contest.ID + `"}`
	c, rec = testutil.NewEchoContext(f.e, http.MethodPost, "/api/contestants", strings.NewReader(body))
	require.NoError(t, f.h.CreateContestant(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var second struct {
		Contestant models.Contestant `json:"contestant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, resp.Contestant.CategoryID, second.Contestant.CategoryID)
}
