package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

// RedisLocker is a SET NX lock with a random token, so only the holder can release it.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, retries int, retryDelay time.Duration) *RedisLocker {
	if retries <= 0 {
		retries = 1
	}
	return &RedisLocker{client: client, ttl: ttl, retries: retries, retryDelay: retryDelay}
}

// NewRedisClient pings addr and returns nil when Redis is unreachable.
func NewRedisClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func (l *RedisLocker) Backend() string { return "redis" }

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Lock, error) {
	var lastErr error
	for i := 0; i < l.retries; i++ {
		lk, err := l.tryAcquire(ctx, key)
		if err == nil {
			return lk, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return nil, lastErr
}

func (l *RedisLocker) tryAcquire(ctx context.Context, key string) (*RedisLock, error) {
	lockKey := "lock:" + key
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("acquire %s: %w", lockKey, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &RedisLock{client: l.client, key: lockKey, token: token}, nil
}

type RedisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (l *RedisLock) Release(ctx context.Context) error {
	res, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	if res == 0 {
		return ErrNotOwned
	}
	return nil
}
