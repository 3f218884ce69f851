package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidToken is returned for tokens that do not decode to a cursor.
var ErrInvalidToken = errors.New("invalid page token")

// Cursor points into the history of one conversation. Pages run newest to
// oldest, so the next page holds messages with ID < BeforeID.
type Cursor struct {
	Low      int64  `json:"lo"`
	High     int64  `json:"hi"`
	BeforeID uint64 `json:"before"`
}

// For builds the cursor continuing the conversation between a and b before
// message id before.
func For(a, b int64, before uint64) Cursor {
	if a > b {
		a, b = b, a
	}
	return Cursor{Low: a, High: b, BeforeID: before}
}

// Matches reports whether c was issued for the conversation between a and b.
func (c Cursor) Matches(a, b int64) bool {
	return For(a, b, c.BeforeID) == c
}

// Encode converts a Cursor into a URL-safe token.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses a token produced by Encode.
// Empty token → zero cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil || c.BeforeID == 0 {
		return Cursor{}, ErrInvalidToken
	}
	return c, nil
}
