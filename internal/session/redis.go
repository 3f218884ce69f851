package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/oggyb/mysticmatch/internal/cache"
)

// RedisStore keeps sessions in Redis so they survive restarts and can be
// shared between bot replicas. Redis TTLs handle expiry.
type RedisStore struct {
	cache *cache.RedisCache
	ttls  TTLs
}

func NewRedisStore(rc *cache.RedisCache, ttls TTLs) *RedisStore {
	return &RedisStore{cache: rc, ttls: ttls}
}

func (s *RedisStore) GetRegistration(ctx context.Context, userID int64) (*Registration, error) {
	var reg Registration
	found, err := s.cache.GetJSON(ctx, s.cache.KeyForRegistration(userID), &reg)
	if err != nil {
		return nil, fmt.Errorf("load registration %d: %w", userID, err)
	}
	if !found {
		return nil, nil
	}
	return &reg, nil
}

func (s *RedisStore) SaveRegistration(ctx context.Context, reg *Registration) error {
	if err := s.cache.SetJSON(ctx, s.cache.KeyForRegistration(reg.UserID), reg, s.ttls.Registration); err != nil {
		return fmt.Errorf("save registration %d: %w", reg.UserID, err)
	}
	return nil
}

func (s *RedisStore) DeleteRegistration(ctx context.Context, userID int64) error {
	if err := s.cache.Del(ctx, s.cache.KeyForRegistration(userID)); err != nil {
		return fmt.Errorf("delete registration %d: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) GetChat(ctx context.Context, userID int64) (int64, bool, error) {
	val, err := s.cache.Get(ctx, s.cache.KeyForChat(userID))
	if err != nil {
		return 0, false, fmt.Errorf("load chat session %d: %w", userID, err)
	}
	if val == "" {
		return 0, false, nil
	}
	target, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// corrupt entry, treat as no session
		_ = s.cache.Del(ctx, s.cache.KeyForChat(userID))
		return 0, false, nil
	}
	return target, true, nil
}

func (s *RedisStore) SetChat(ctx context.Context, userID, targetID int64) error {
	if err := s.cache.Set(ctx, s.cache.KeyForChat(userID), strconv.FormatInt(targetID, 10), s.ttls.Chat); err != nil {
		return fmt.Errorf("save chat session %d: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) DeleteChat(ctx context.Context, userID int64) (bool, error) {
	existed, err := s.cache.Delete(ctx, s.cache.KeyForChat(userID))
	if err != nil {
		return false, fmt.Errorf("delete chat session %d: %w", userID, err)
	}
	return existed, nil
}
