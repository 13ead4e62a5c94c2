// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/testutil"
)

func TestCreateVoteSuperseding(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	alice := testutil.NewTestContestant(t, repo, contest.ID, "Alice")
	bob := testutil.NewTestContestant(t, repo, contest.ID, "Bob")

	first := &models.Vote{Email: "voter@example.com", ContestantID: alice.ID, ContestID: contest.ID}
	require.NoError(t, repo.CreateVoteSuperseding(ctx, first))
	assert.Equal(t, models.VotePending, first.Status)

	// A second cast for the same pair replaces the pending vote, even with a
	// different contestant.
	second := &models.Vote{Email: "voter@example.com", ContestantID: bob.ID, ContestID: contest.ID}
	require.NoError(t, repo.CreateVoteSuperseding(ctx, second))

	_, err := repo.GetVote(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	current, err := repo.GetVoteByEmailAndContest(ctx, "voter@example.com", contest.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, bob.ID, current.ContestantID)
}

func TestCreateVoteSupersedingKeepsVerifiedVote(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote := &models.Vote{Email: "voter@example.com", ContestantID: contestant.ID, ContestID: contest.ID}
	require.NoError(t, repo.CreateVoteSuperseding(ctx, vote))
	_, err := repo.VerifyVote(ctx, vote.ID)
	require.NoError(t, err)

	again := &models.Vote{Email: "voter@example.com", ContestantID: contestant.ID, ContestID: contest.ID}
	err = repo.CreateVoteSuperseding(ctx, again)
	assert.ErrorIs(t, err, repository.ErrVoteVerified)
}

func TestVerifyVoteUpdatesCounter(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote := &models.Vote{Email: "voter@example.com", ContestantID: contestant.ID, ContestID: contest.ID}
	require.NoError(t, repo.CreateVoteSuperseding(ctx, vote))

	verified, err := repo.VerifyVote(ctx, vote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteVerified, verified.Status)

	reloaded, err := repo.GetContestant(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.Votes)

	count, err := repo.CountVerifiedVotes(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestVerifyVoteTwice(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote := &models.Vote{Email: "voter@example.com", ContestantID: contestant.ID, ContestID: contest.ID}
	require.NoError(t, repo.CreateVoteSuperseding(ctx, vote))

	_, err := repo.VerifyVote(ctx, vote.ID)
	require.NoError(t, err)

	// The second confirmation loses the guarded update and must not move the
	// counter again.
	_, err = repo.VerifyVote(ctx, vote.ID)
	assert.ErrorIs(t, err, repository.ErrVoteVerified)

	reloaded, err := repo.GetContestant(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.Votes)
}

func TestVerifiedVotesFromDifferentEmails(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		vote := &models.Vote{Email: email, ContestantID: contestant.ID, ContestID: contest.ID}
		require.NoError(t, repo.CreateVoteSuperseding(ctx, vote))
		_, err := repo.VerifyVote(ctx, vote.ID)
		require.NoError(t, err)
	}

	reloaded, err := repo.GetContestant(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, reloaded.Votes)
}

func TestDeleteContestCascadesVotes(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote := &models.Vote{Email: "voter@example.com", ContestantID: contestant.ID, ContestID: contest.ID}
	require.NoError(t, repo.CreateVoteSuperseding(ctx, vote))

	require.NoError(t, repo.DeleteContest(ctx, contest.ID))

	_, err := repo.GetVote(ctx, vote.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetContestant(ctx, contestant.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
