package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/mysticmatch/internal/domain"
)

func TestActionEncoding(t *testing.T) {
	cases := []struct {
		action Action
		data   string
	}{
		{GenderAction(domain.GenderOther), "gender:other"},
		{InterestAction(domain.PreferAll), "interest:all"},
		{LikeAction(42), "like:42"},
		{PassAction(7), "pass:7"},
		{ChatAction(99), "chat:99"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.data, tc.action.Encode())

		got, err := DecodeAction(tc.data)
		require.NoError(t, err, tc.data)
		assert.Equal(t, tc.action, got)
	}
}

func TestDecodeActionRejectsGarbage(t *testing.T) {
	for _, data := range []string{
		"",
		"like",
		"like:",
		"like:abc",
		"gender:robot",
		"interest:men",
		"superlike:1",
	} {
		_, err := DecodeAction(data)
		assert.Error(t, err, data)
	}
}
