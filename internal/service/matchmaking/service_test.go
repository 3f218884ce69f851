package matchmaking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/mysticmatch/internal/app/apptest"
	"github.com/oggyb/mysticmatch/internal/db/dbtest"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
	"github.com/oggyb/mysticmatch/internal/repository"
	"github.com/oggyb/mysticmatch/internal/service/matchmaking"
)

func setup(t *testing.T) (*apptest.Env, *matchmaking.Service) {
	t.Helper()
	env := apptest.New(t)
	return env, matchmaking.NewService(env.AppContext)
}

func TestMutualLike(t *testing.T) {
	ctx := context.Background()

	for name, order := range map[string][2]int64{"a first": {1, 2}, "b first": {2, 1}} {
		t.Run(name, func(t *testing.T) {
			env, svc := setup(t)
			dbtest.Profile(t, env.DB, 1, "A", "male", "female")
			dbtest.Profile(t, env.DB, 2, "B", "female", "male")

			first, err := svc.RecordDecision(ctx, order[0], order[1], true)
			require.NoError(t, err)
			assert.False(t, first)

			second, err := svc.RecordDecision(ctx, order[1], order[0], true)
			require.NoError(t, err)
			assert.True(t, second)

			for _, pair := range [][2]int64{{1, 2}, {2, 1}} {
				ok, err := svc.IsMatched(ctx, pair[0], pair[1])
				require.NoError(t, err)
				assert.True(t, ok)
			}
		})
	}
}

func TestNonReciprocalLike(t *testing.T) {
	ctx := context.Background()
	env, svc := setup(t)
	dbtest.Profile(t, env.DB, 1, "A", "male", "female")
	dbtest.Profile(t, env.DB, 2, "B", "female", "male")

	isNew, err := svc.RecordDecision(ctx, 1, 2, true)
	require.NoError(t, err)
	assert.False(t, isNew)

	ok, err := svc.IsMatched(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// a pass back does not match either
	isNew, err = svc.RecordDecision(ctx, 2, 1, false)
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestRecordDecision_Preconditions(t *testing.T) {
	ctx := context.Background()
	env, svc := setup(t)
	dbtest.Profile(t, env.DB, 1, "A", "male", "female")

	_, err := svc.RecordDecision(ctx, 1, 1, true)
	assert.ErrorIs(t, err, svcErr.ErrSelfDecision)

	_, err = svc.RecordDecision(ctx, 1, 404, true)
	assert.ErrorIs(t, err, svcErr.ErrProfileNotFound)

	_, err = svc.RecordDecision(ctx, 404, 1, true)
	assert.ErrorIs(t, err, svcErr.ErrProfileNotFound)
}

func TestNextCandidate_ExcludesSeen(t *testing.T) {
	ctx := context.Background()
	env, svc := setup(t)
	dbtest.Profile(t, env.DB, 1, "Viewer", "male", "all")
	dbtest.Profile(t, env.DB, 2, "B", "female", "male")
	dbtest.Profile(t, env.DB, 3, "C", "male", "female")

	c, err := svc.NextCandidate(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(2), c.UserID)

	// unchanged state returns the same candidate
	again, err := svc.NextCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, c.UserID, again.UserID)

	_, err = svc.RecordDecision(ctx, 1, 2, false)
	require.NoError(t, err)

	c, err = svc.NextCandidate(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(3), c.UserID)

	_, err = svc.RecordDecision(ctx, 1, 3, true)
	require.NoError(t, err)

	c, err = svc.NextCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNextCandidate_PreferenceFilter(t *testing.T) {
	ctx := context.Background()
	env, svc := setup(t)
	dbtest.Profile(t, env.DB, 1, "Viewer", "male", "female")
	dbtest.Profile(t, env.DB, 2, "M", "male", "all")
	dbtest.Profile(t, env.DB, 3, "O", "other", "all")
	dbtest.Profile(t, env.DB, 4, "F", "female", "female")

	seen := 0
	for {
		c, err := svc.NextCandidate(ctx, 1)
		require.NoError(t, err)
		if c == nil {
			break
		}
		assert.Equal(t, "female", c.Gender)
		// not reciprocal: 4 only wants women and is still shown
		assert.Equal(t, int64(4), c.UserID)
		seen++
		_, err = svc.RecordDecision(ctx, 1, c.UserID, false)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, seen)
}

func TestNextCandidate_SkipsInactiveAndUnregistered(t *testing.T) {
	ctx := context.Background()
	env, svc := setup(t)
	dbtest.Profile(t, env.DB, 1, "Viewer", "female", "all")
	dbtest.Profile(t, env.DB, 2, "Paused", "male", "female")

	paused := false
	require.NoError(t, env.Profiles.Update(ctx, 2, repository.ProfileUpdate{Active: &paused}))

	c, err := svc.NextCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = svc.NextCandidate(ctx, 404)
	assert.ErrorIs(t, err, svcErr.ErrProfileNotFound)
}

func TestMatchesAndCountLikes(t *testing.T) {
	ctx := context.Background()
	env, svc := setup(t)
	dbtest.Profile(t, env.DB, 1, "A", "male", "all")
	dbtest.Profile(t, env.DB, 2, "B", "female", "all")
	dbtest.Profile(t, env.DB, 3, "C", "female", "all")

	_, err := svc.RecordDecision(ctx, 2, 1, true)
	require.NoError(t, err)
	_, err = svc.RecordDecision(ctx, 1, 2, true)
	require.NoError(t, err)
	_, err = svc.RecordDecision(ctx, 3, 1, true)
	require.NoError(t, err)

	matches, err := svc.Matches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "B", matches[0].Name)

	n, err := svc.CountLikes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	cached, ok, err := env.RedisCache.GetLikeCount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), cached)

	// a new like drops the cached value
	dbtest.Profile(t, env.DB, 4, "D", "female", "all")
	_, err = svc.RecordDecision(ctx, 4, 1, true)
	require.NoError(t, err)

	_, ok, err = env.RedisCache.GetLikeCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err = svc.CountLikes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
