package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
)

// RedisSyncer loads subscriptions from Redis into the memory index on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads subscriptions from Redis and replaces the memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing subscriptions from redis to memory")

	subs, err := rs.store.GetAll(ctx)
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		rs.logger.Info("no subscriptions found in redis")
		return nil
	}

	rs.index.ReplaceAll(subs)

	rs.logger.Info("synced subscriptions from redis",
		logger.Int("count", len(subs)))

	return nil
}
