package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/mysticmatch/internal/db"
	"github.com/oggyb/mysticmatch/internal/db/dbtest"
)

func TestSeedTestData(t *testing.T) {
	database := dbtest.Open(t)

	// run twice: the second run must start from a clean slate
	require.NoError(t, db.SeedTestData(database))
	require.NoError(t, db.SeedTestData(database))

	var profiles int64
	require.NoError(t, database.Model(&db.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(20), profiles)

	var matches []db.Match
	require.NoError(t, database.Find(&matches).Error)
	assert.NotEmpty(t, matches)

	for _, m := range matches {
		assert.Less(t, m.PairLow, m.PairHigh)

		// every seeded match is backed by likes in both directions
		for _, dir := range [][2]int64{{m.PairLow, m.PairHigh}, {m.PairHigh, m.PairLow}} {
			var likes int64
			require.NoError(t, database.Model(&db.LikeRecord{}).
				Where("user_id = ? AND target_id = ? AND liked = ?", dir[0], dir[1], true).
				Count(&likes).Error)
			assert.Positive(t, likes, "pair %d -> %d", dir[0], dir[1])
		}
	}
}

func TestSortedPair(t *testing.T) {
	low, high := db.SortedPair(9, 3)
	assert.Equal(t, int64(3), low)
	assert.Equal(t, int64(9), high)

	low, high = db.SortedPair(3, 9)
	assert.Equal(t, int64(3), low)
	assert.Equal(t, int64(9), high)
}
