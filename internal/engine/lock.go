package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EntityLock serializes read-modify-write cycles against a single entity.
// Enrichment runs against different entities are fully independent; two runs
// against the same entity must not interleave, so each run takes an advisory
// lock keyed by entity id before touching the row.
//
// The lock is a plain SET NX PX with an owner token. Release compares the
// token before deleting so an expired holder cannot free a lock someone else
// now owns.
type EntityLock struct {
	redisClient *redis.Client
	logger      *slog.Logger
	ttl         time.Duration
}

// Lua script for compare-and-delete release.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

func NewEntityLock(redisClient *redis.Client, logger *slog.Logger) *EntityLock {
	return &EntityLock{
		redisClient: redisClient,
		logger:      logger,
		ttl:         30 * time.Second,
	}
}

func lockKey(entityID string) string {
	return fmt.Sprintf("lock:%s", entityID)
}

// Acquire attempts to take the lock without blocking. It returns the owner
// token to pass to Release, and false if another run holds the entity.
func (l *EntityLock) Acquire(ctx context.Context, entityID string) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.redisClient.SetNX(ctx, lockKey(entityID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquiring entity lock: %w", err)
	}
	if !ok {
		l.logger.Debug("entity locked by another run", "entity_id", entityID)
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if the token still owns it.
func (l *EntityLock) Release(ctx context.Context, entityID, token string) error {
	_, err := releaseScript.Run(ctx, l.redisClient, []string{lockKey(entityID)}, token).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("releasing entity lock: %w", err)
	}
	return nil
}
