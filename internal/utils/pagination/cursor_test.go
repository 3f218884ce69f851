package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyToken(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, Cursor{}, c)
}

func TestCursorRoundTrip(t *testing.T) {
	token, err := Encode(For(99, 42, 77))
	require.NoError(t, err)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), c.BeforeID)
	assert.True(t, c.Matches(42, 99))
	assert.True(t, c.Matches(99, 42))
	assert.False(t, c.Matches(42, 100))
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("%%%not-base64")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Decode(base64.RawURLEncoding.EncodeToString([]byte("not-json")))
	assert.ErrorIs(t, err, ErrInvalidToken)

	// a cursor must point somewhere
	_, err = Decode(base64.RawURLEncoding.EncodeToString([]byte(`{"lo":1,"hi":2}`)))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
