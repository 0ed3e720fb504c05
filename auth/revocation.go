package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out token IDs until the tokens would have
// expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevoker struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, prefix: "revoked:"}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevoker keeps revocations in process memory.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: map[string]time.Time{}}
}

func (r *MemoryRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, exp := range r.entries {
		if !exp.After(now) {
			delete(r.entries, id)
		}
	}
	if until.After(now) {
		r.entries[jti] = until
	}
	return nil
}

func (r *MemoryRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.entries[jti]
	return ok && exp.After(time.Now()), nil
}
