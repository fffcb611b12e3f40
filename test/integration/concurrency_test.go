package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

// TestConcurrentApplySameUser races appliers for one (subject, user) pair
// against real postgres; exactly one record may remain.
func TestConcurrentApplySameUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	choices := []domain.Choice{
		domain.ReactionLike, domain.ReactionLove, domain.ReactionHaha,
		domain.ReactionWow, domain.ReactionDislike,
	}

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(choice domain.Choice) {
			defer wg.Done()
			if _, err := app.Reactions.Apply(ctx, ports.ApplyInput{SubjectID: 1, UserID: 10, Choice: choice}); err != nil {
				errs <- err
			}
		}(choices[i%len(choices)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, app.countRecords(t, domain.KindCommentReaction, 1, 10))

	choicesAfter, err := app.Reactions.ListForSubject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, choicesAfter, 1)
	assert.Contains(t, choices, choicesAfter[10])
}

// TestConcurrentApplyDistinctUsers checks that concurrent first applies from
// different users all land and the histogram accounts for every one of them.
func TestConcurrentApplyDistinctUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	const users = 25
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for userID := int64(1); userID <= users; userID++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			choice := domain.ReactionLike
			if userID%5 == 0 {
				choice = domain.ReactionWow
			}
			if _, err := app.Reactions.Apply(ctx, ports.ApplyInput{SubjectID: 2, UserID: userID, Choice: choice}); err != nil {
				errs <- err
			}
		}(userID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	aggregate, err := app.Reactions.AggregateForSubject(ctx, 2)
	require.NoError(t, err)
	require.Len(t, aggregate.Histogram, 2)

	var total int64
	for _, entry := range aggregate.Histogram {
		total += entry.Count
	}
	assert.Equal(t, int64(users), total)
}

// TestConcurrentApplyAndRevoke interleaves choice switches with revokes;
// whatever wins, the invariant holds: zero or one record, never two.
func TestConcurrentApplyAndRevoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	ctx := context.Background()

	_, err := app.Ratings.Apply(ctx, ports.ApplyInput{SubjectID: 3, UserID: 10, Choice: domain.RatingChoice(3)})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func(value int) {
			defer wg.Done()
			if _, err := app.Ratings.Apply(ctx, ports.ApplyInput{SubjectID: 3, UserID: 10, Choice: domain.RatingChoice(value)}); err != nil {
				errs <- err
			}
		}(i + 1)
		go func() {
			defer wg.Done()
			if _, err := app.Ratings.Revoke(ctx, 3, 10); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count := app.countRecords(t, domain.KindPictureRating, 3, 10)
	assert.LessOrEqual(t, count, 1)
}
