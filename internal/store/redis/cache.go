package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultCommentaryTTL caps how long an AI spending commentary is reused
	// before a fresh one is generated.
	DefaultCommentaryTTL = 24 * time.Hour

	// DefaultNotifiedTTL keeps reminder dedupe markers around long enough to
	// cover every sweep before the occurrence passes.
	DefaultNotifiedTTL = 14 * 24 * time.Hour
)

// CacheCommentary stores a month -> commentary line in cache
func (s *Store) CacheCommentary(ctx context.Context, month, text string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CommentaryKey(month), text, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache commentary: %w", err)
	}
	return nil
}

// GetCachedCommentary retrieves a cached commentary; empty string on miss.
func (s *Store) GetCachedCommentary(ctx context.Context, month string) (string, error) {
	text, err := s.client.Get(ctx, CommentaryKey(month)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // Cache miss
		}
		return "", fmt.Errorf("failed to get cached commentary: %w", err)
	}
	return text, nil
}

// MarkNotified records that a reminder was dispatched for one occurrence.
// Returns false when the marker already existed, so callers send at most
// one notification per (subscription, occurrence).
func (s *Store) MarkNotified(ctx context.Context, id, occurrence string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, NotifiedKey(id, occurrence), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark notified: %w", err)
	}
	return ok, nil
}

// FlushCommentary removes all cached commentary lines
func (s *Store) FlushCommentary(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCommentary+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete commentary key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush commentary cache: %w", err)
	}
	return nil
}
