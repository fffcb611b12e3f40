package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

// TestReactionFlow covers the full reaction lifecycle: apply, list,
// aggregate, switch, revoke.
func TestReactionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	const commentID = int64(42)

	// 1. Three users react.
	for userID, choice := range map[int64]domain.Choice{
		1: domain.ReactionLike,
		2: domain.ReactionLike,
		3: domain.ReactionWow,
	} {
		record, err := app.Reactions.Apply(ctx, ports.ApplyInput{SubjectID: commentID, UserID: userID, Choice: choice})
		require.NoError(t, err)
		assert.Equal(t, choice, record.Choice)
	}

	// 2. Per-user map shows each user's current choice.
	choices, err := app.Reactions.ListForSubject(ctx, commentID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]domain.Choice{
		1: domain.ReactionLike,
		2: domain.ReactionLike,
		3: domain.ReactionWow,
	}, choices)

	// 3. Histogram is ordered by popularity.
	aggregate, err := app.Reactions.AggregateForSubject(ctx, commentID)
	require.NoError(t, err)
	assert.Equal(t, []domain.HistogramEntry{
		{Choice: domain.ReactionLike, Count: 2},
		{Choice: domain.ReactionWow, Count: 1},
	}, aggregate.Histogram)

	// 4. User 1 changes their mind; old choice disappears atomically.
	_, err = app.Reactions.Apply(ctx, ports.ApplyInput{SubjectID: commentID, UserID: 1, Choice: domain.ReactionHaha})
	require.NoError(t, err)
	assert.Equal(t, 1, app.countRecords(t, domain.KindCommentReaction, commentID, 1))

	choices, err = app.Reactions.ListForSubject(ctx, commentID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionHaha, choices[1])

	// 5. Revoke removes the record; a second revoke reports found=false.
	found, err := app.Reactions.Revoke(ctx, commentID, 1)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = app.Reactions.Revoke(ctx, commentID, 1)
	require.NoError(t, err)
	assert.False(t, found)

	choices, err = app.Reactions.ListForSubject(ctx, commentID)
	require.NoError(t, err)
	assert.NotContains(t, choices, int64(1))
}

func TestReactionIdempotentApply(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	input := ports.ApplyInput{SubjectID: 7, UserID: 1, Choice: domain.ReactionLove}

	_, err := app.Reactions.Apply(ctx, input)
	require.NoError(t, err)
	_, err = app.Reactions.Apply(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, 1, app.countRecords(t, domain.KindCommentReaction, 7, 1))
}

func TestReactionRejectsUnknownToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, err := app.Reactions.Apply(context.Background(), ports.ApplyInput{SubjectID: 7, UserID: 1, Choice: "thumbsup"})
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	assert.Equal(t, 0, app.countRecords(t, domain.KindCommentReaction, 7, 1))
}

func TestReactionListUnknownSubject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	choices, err := app.Reactions.ListForSubject(context.Background(), 9999)
	require.NoError(t, err)
	assert.Empty(t, choices)
}
