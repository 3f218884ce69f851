package repository

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/oggyb/mysticmatch/internal/db"
)

// MessageRepository is the append-only log of relayed chat messages.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create appends a message and returns it with its sequence id set.
func (r *MessageRepository) Create(ctx context.Context, fromID, toID int64, text string) (*db.ChatMessage, error) {
	msg := db.ChatMessage{FromUserID: fromID, ToUserID: toID, Text: text}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("save chat message %d->%d: %w", fromID, toID, err)
	}
	return &msg, nil
}

// History returns up to limit of the most recent messages exchanged between a
// and b, oldest first. With beforeID > 0 only messages older than beforeID
// are considered.
func (r *MessageRepository) History(ctx context.Context, a, b int64, beforeID uint64, limit int) ([]db.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))", a, b, b, a)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var msgs []db.ChatMessage
	if err := query.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load chat history %d<->%d: %w", a, b, err)
	}
	slices.Reverse(msgs)
	return msgs, nil
}
