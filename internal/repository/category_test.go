// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unityvote/unityvote/internal/testutil"
)

func TestFindOrCreateCategory(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	contest := testutil.NewTestContest(t, repo)

	created, err := repo.FindOrCreateCategory(ctx, contest.ID, "Best Newcomer")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, "Award category for Best Newcomer", created.Description)

	// Same name resolves to the same row.
	found, err := repo.FindOrCreateCategory(ctx, contest.ID, "Best Newcomer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	categories, err := repo.ListCategories(ctx, contest.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestFindOrCreateCategoryScopedToContest(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	first := testutil.NewTestContest(t, repo)
	second := testutil.NewTestContest(t, repo)

	a, err := repo.FindOrCreateCategory(ctx, first.ID, "Best Newcomer")
	require.NoError(t, err)
	b, err := repo.FindOrCreateCategory(ctx, second.ID, "Best Newcomer")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
