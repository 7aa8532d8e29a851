package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// TrySetNX sets the key only if it does not exist, returning whether it was set.
	TrySetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}
