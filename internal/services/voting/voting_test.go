// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package voting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/otp"
	"github.com/unityvote/unityvote/internal/services/voting"
	"github.com/unityvote/unityvote/internal/testutil"
)

func newVotingService(t *testing.T) (*voting.Service, *repository.Repository, *testutil.RecorderSender) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	sender := &testutil.RecorderSender{}
	codes := otp.NewService(repo, otp.Config{})
	return voting.NewService(repo, codes, sender), repo, sender
}

func TestCastAndConfirmVote(t *testing.T) {
	svc, repo, sender := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.VotePending, vote.Status)

	mail := sender.Last(t)
	assert.Equal(t, "voter@example.com", mail.To)
	require.Len(t, mail.Code, 6)

	confirmed, err := svc.ConfirmVote(ctx, vote.ID, mail.Code)
	require.NoError(t, err)
	assert.Equal(t, models.VoteVerified, confirmed.Status)

	reloaded, err := repo.GetContestant(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.Votes)
}

func TestCastVoteInvalidEmail(t *testing.T) {
	svc, repo, _ := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	_, err := svc.CastVote(ctx, "not-an-email", contestant.ID, contest.ID, "")
	assert.ErrorIs(t, err, voting.ErrInvalidEmail)
}

func TestCastVoteInactiveContest(t *testing.T) {
	svc, repo, _ := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	contest.Status = models.ContestPaused
	require.NoError(t, repo.UpdateContest(ctx, contest))

	_, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	assert.ErrorIs(t, err, voting.ErrContestNotActive)
}

func TestCastVoteIneligibleContestant(t *testing.T) {
	svc, repo, _ := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	contestant.Status = models.ContestantWithdrawn
	require.NoError(t, repo.UpdateContestant(ctx, contestant))

	_, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	assert.ErrorIs(t, err, voting.ErrContestantIneligible)
}

func TestCastVoteContestantFromOtherContest(t *testing.T) {
	svc, repo, _ := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	other := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, other.ID, "Alice")

	_, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	assert.ErrorIs(t, err, voting.ErrContestantNotFound)
}

func TestCastVoteAfterVerifiedIsDuplicate(t *testing.T) {
	svc, repo, sender := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	require.NoError(t, err)
	_, err = svc.ConfirmVote(ctx, vote.ID, sender.Last(t).Code)
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	assert.ErrorIs(t, err, voting.ErrDuplicateVote)
}

func TestRecastSupersedesPendingVote(t *testing.T) {
	svc, repo, sender := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	alice := testutil.NewTestContestant(t, repo, contest.ID, "Alice")
	bob := testutil.NewTestContestant(t, repo, contest.ID, "Bob")

	first, err := svc.CastVote(ctx, "voter@example.com", alice.ID, contest.ID, "")
	require.NoError(t, err)
	staleCode := sender.Last(t).Code

	second, err := svc.CastVote(ctx, "voter@example.com", bob.ID, contest.ID, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// The superseded vote and its code are gone.
	_, err = svc.ConfirmVote(ctx, first.ID, staleCode)
	assert.ErrorIs(t, err, voting.ErrVoteNotFound)

	confirmed, err := svc.ConfirmVote(ctx, second.ID, sender.Last(t).Code)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, confirmed.ContestantID)
}

func TestConfirmVoteWrongCode(t *testing.T) {
	svc, repo, sender := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	require.NoError(t, err)

	code := sender.Last(t).Code
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err = svc.ConfirmVote(ctx, vote.ID, wrong)
	assert.ErrorIs(t, err, voting.ErrInvalidOrExpiredCode)

	// Vote stays pending, counter untouched.
	reloaded, err := repo.GetVote(ctx, vote.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VotePending, reloaded.Status)

	c, err := repo.GetContestant(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.Votes)
}

func TestConfirmVoteTwice(t *testing.T) {
	svc, repo, sender := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	vote, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	require.NoError(t, err)
	code := sender.Last(t).Code

	_, err = svc.ConfirmVote(ctx, vote.ID, code)
	require.NoError(t, err)

	_, err = svc.ConfirmVote(ctx, vote.ID, code)
	assert.ErrorIs(t, err, voting.ErrAlreadyVerified)

	reloaded, err := repo.GetContestant(ctx, contestant.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.Votes)
}

func TestCastVoteRollsBackWhenEmailFails(t *testing.T) {
	svc, repo, sender := newVotingService(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)
	contestant := testutil.NewTestContestant(t, repo, contest.ID, "Alice")

	sender.Fail = true
	_, err := svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	require.Error(t, err)

	// No orphaned pending vote; the voter can cast again once email works.
	_, err = repo.GetVoteByEmailAndContest(ctx, "voter@example.com", contest.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	sender.Fail = false
	_, err = svc.CastVote(ctx, "voter@example.com", contestant.ID, contest.ID, "")
	require.NoError(t, err)
}
