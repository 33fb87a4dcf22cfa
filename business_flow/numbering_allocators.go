package businessflow

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rentalworks/quoting/repository"
)

// CounterSequenceAllocator allocates from the persistent sequence_counters
// table. Production default: survives restarts and is safe across instances
// sharing one database.
type CounterSequenceAllocator struct {
	counterRepo repository.SequenceCounterRepository
}

func NewCounterSequenceAllocator(counterRepo repository.SequenceCounterRepository) *CounterSequenceAllocator {
	return &CounterSequenceAllocator{counterRepo: counterRepo}
}

// Allocate implements SequenceAllocator.
func (a *CounterSequenceAllocator) Allocate(ctx context.Context, key SequenceKey) (int64, error) {
	value, err := a.counterRepo.Next(ctx, key.CounterName())
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence for %s: %w", key.CounterName(), err)
	}
	return value, nil
}

// RedisSequenceAllocator allocates via INCR. Used when the cache is enabled;
// keys carry no TTL since a stale month's counter is harmless and tiny.
type RedisSequenceAllocator struct {
	rc *redis.Client
}

func NewRedisSequenceAllocator(rc *redis.Client) *RedisSequenceAllocator {
	return &RedisSequenceAllocator{rc: rc}
}

// Allocate implements SequenceAllocator.
func (a *RedisSequenceAllocator) Allocate(ctx context.Context, key SequenceKey) (int64, error) {
	redisKey := fmt.Sprintf("quoting:seq:%s:%s", key.Domain, key.Period)
	value, err := a.rc.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence for %s: %w", redisKey, err)
	}
	return value, nil
}
