// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package otp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/services/otp"
	"github.com/unityvote/unityvote/internal/testutil"
)

func TestIssueAndValidate(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := otp.NewService(repo, otp.Config{})
	ctx := context.Background()

	code, err := svc.Issue(ctx, models.OTPSubjectVote, "vote-1")
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)

	require.NoError(t, svc.Validate(ctx, models.OTPSubjectVote, "vote-1", code.Code))
}

func TestValidateWrongCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := otp.NewService(repo, otp.Config{})
	ctx := context.Background()

	code, err := svc.Issue(ctx, models.OTPSubjectVote, "vote-1")
	require.NoError(t, err)

	err = svc.Validate(ctx, models.OTPSubjectVote, "vote-1", "000000")
	if code.Code == "000000" {
		t.Skip("generated code collided with the probe value")
	}
	assert.ErrorIs(t, err, otp.ErrCodeInvalid)

	// A wrong submission does not burn the live code.
	require.NoError(t, svc.Validate(ctx, models.OTPSubjectVote, "vote-1", code.Code))
}

func TestValidateConsumesCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := otp.NewService(repo, otp.Config{})
	ctx := context.Background()

	code, err := svc.Issue(ctx, models.OTPSubjectVote, "vote-1")
	require.NoError(t, err)

	require.NoError(t, svc.Validate(ctx, models.OTPSubjectVote, "vote-1", code.Code))
	err = svc.Validate(ctx, models.OTPSubjectVote, "vote-1", code.Code)
	assert.ErrorIs(t, err, otp.ErrCodeInvalid)
}

func TestValidateExpiredCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := otp.NewService(repo, otp.Config{TTL: time.Millisecond})
	ctx := context.Background()

	code, err := svc.Issue(ctx, models.OTPSubjectVote, "vote-1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	err = svc.Validate(ctx, models.OTPSubjectVote, "vote-1", code.Code)
	assert.ErrorIs(t, err, otp.ErrCodeInvalid)
}

func TestIssueSupersedesEarlierCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := otp.NewService(repo, otp.Config{})
	ctx := context.Background()

	first, err := svc.Issue(ctx, models.OTPSubjectAdmin, "admin-1")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, models.OTPSubjectAdmin, "admin-1")
	require.NoError(t, err)

	if first.Code != second.Code {
		err = svc.Validate(ctx, models.OTPSubjectAdmin, "admin-1", first.Code)
		assert.ErrorIs(t, err, otp.ErrCodeInvalid)
	}
	require.NoError(t, svc.Validate(ctx, models.OTPSubjectAdmin, "admin-1", second.Code))
}

func TestSubjectsAreIsolated(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := otp.NewService(repo, otp.Config{})
	ctx := context.Background()

	voteCode, err := svc.Issue(ctx, models.OTPSubjectVote, "id-1")
	require.NoError(t, err)
	adminCode, err := svc.Issue(ctx, models.OTPSubjectAdmin, "id-1")
	require.NoError(t, err)

	// Same subject ID under a different kind keeps its own code.
	require.NoError(t, svc.Validate(ctx, models.OTPSubjectVote, "id-1", voteCode.Code))
	require.NoError(t, svc.Validate(ctx, models.OTPSubjectAdmin, "id-1", adminCode.Code))
}
