package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a subscription ID has no record in Redis.
var ErrNotFound = errors.New("subscription not found")

// Store handles Redis operations for subscriptions, commentary cache and
// reminder markers. Subscriptions are stored without TTL: they live until
// the purge scheduler removes them.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Save stores a subscription in Redis
func (s *Store) Save(ctx context.Context, sub *domain.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	// Store subscription data
	if err := s.client.Set(ctx, SubKey(sub.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	// Add to set of all subscriptions
	if err := s.client.SAdd(ctx, AllSubsKey(), sub.ID).Err(); err != nil {
		return fmt.Errorf("failed to add subscription to set: %w", err)
	}

	return nil
}

// Get retrieves a subscription from Redis by ID
func (s *Store) Get(ctx context.Context, id string) (*domain.Subscription, error) {
	data, err := s.client.Get(ctx, SubKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	var sub domain.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	return &sub, nil
}

// GetAll retrieves all subscriptions from Redis
func (s *Store) GetAll(ctx context.Context) ([]*domain.Subscription, error) {
	ids, err := s.client.SMembers(ctx, AllSubsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Subscription{}, nil
	}

	subs := make([]*domain.Subscription, 0, len(ids))
	for _, id := range ids {
		sub, err := s.Get(ctx, id)
		if err != nil {
			// Skip records that couldn't be retrieved
			continue
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// Delete removes a subscription from Redis permanently
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, SubKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	if err := s.client.SRem(ctx, AllSubsKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to remove subscription from set: %w", err)
	}

	return nil
}

// SaveMany stores multiple subscriptions in Redis (bulk operation)
func (s *Store) SaveMany(ctx context.Context, subs []*domain.Subscription) error {
	pipe := s.client.Pipeline()

	for _, sub := range subs {
		data, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("failed to marshal subscription %s: %w", sub.ID, err)
		}

		pipe.Set(ctx, SubKey(sub.ID), data, 0)
		pipe.SAdd(ctx, AllSubsKey(), sub.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save subscriptions: %w", err)
	}

	return nil
}
