package db

import (
	"time"
)

// Profile is a registered user. UserID is the platform identity (Telegram user id).
//
// InterestedIn stays NULL until registration completes; only active profiles
// with a preference set are shown as swipe candidates.
type Profile struct {
	UserID       int64   `gorm:"primaryKey;autoIncrement:false"`
	Username     string  `gorm:"size:64"`
	Name         string  `gorm:"size:128;not null"`
	Age          int     `gorm:"not null"`
	Gender       string  `gorm:"size:16;not null;index:idx_candidates,priority:2"`
	InterestedIn *string `gorm:"size:16"`
	City         string  `gorm:"size:128"`
	Bio          string  `gorm:"size:1024"`
	Photo        string  `gorm:"size:255"`
	Active       bool    `gorm:"not null;default:true;index:idx_candidates,priority:1"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Registered reports whether the profile finished registration.
func (p *Profile) Registered() bool {
	return p != nil && p.InterestedIn != nil
}

// Preference returns the stored preference or "" when unset.
func (p *Profile) Preference() string {
	if p == nil || p.InterestedIn == nil {
		return ""
	}
	return *p.InterestedIn
}

// LikeRecord is one swipe decision. Rows are append-only: swiping the same
// target twice stores two rows.
//
// Indexes:
//   - idx_like_user_target(user_id, target_id) serves the seen-list subquery.
//   - idx_like_reciprocal(target_id, user_id, liked) serves the mutual-like check.
type LikeRecord struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index:idx_like_user_target,priority:1;index:idx_like_reciprocal,priority:2"`
	TargetID  int64     `gorm:"not null;index:idx_like_user_target,priority:2;index:idx_like_reciprocal,priority:1"`
	Liked     bool      `gorm:"not null;index:idx_like_reciprocal,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match links two users who liked each other.
//
// User1ID is the user whose like completed the pair. PairLow/PairHigh hold the
// same ids sorted so the pair is unique regardless of who liked first.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   int64     `gorm:"not null;index"`
	User2ID   int64     `gorm:"not null;index"`
	PairLow   int64     `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	PairHigh  int64     `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Other returns the counterpart of userID in this match.
func (m Match) Other(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// ChatMessage is a relayed text. ID doubles as the ordering sequence.
type ChatMessage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID int64     `gorm:"not null;index:idx_chat_pair,priority:1"`
	ToUserID   int64     `gorm:"not null;index:idx_chat_pair,priority:2"`
	Text       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// SortedPair orders two ids for the match uniqueness key.
func SortedPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{&Profile{}, &LikeRecord{}, &Match{}, &ChatMessage{}}
}
