package dedupe

import (
	"context"
	"sync"
	"time"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/constvars"

	"go.uber.org/zap"
)

var (
	dedupeGuardInstance contracts.IdempotencyGuard
	onceDedupeGuard     sync.Once
)

const keyPrefix = "pipeline:processed:"

type redisDedupeGuard struct {
	redisRepo contracts.RedisRepository
	retention time.Duration
	Log       *zap.Logger
}

// NewRedisDedupeGuard returns an idempotency guard backed by redis SETNX.
// Claims expire after the retention window so storage stays bounded.
func NewRedisDedupeGuard(repo contracts.RedisRepository, retention time.Duration, logger *zap.Logger) contracts.IdempotencyGuard {
	onceDedupeGuard.Do(func() {
		instance := &redisDedupeGuard{
			redisRepo: repo,
			retention: retention,
			Log:       logger,
		}
		dedupeGuardInstance = instance
	})
	return dedupeGuardInstance
}

func (g *redisDedupeGuard) MarkProcessed(ctx context.Context, dedupeKey string) (bool, error) {
	claimed, err := g.redisRepo.TrySetNX(ctx, keyPrefix+dedupeKey, time.Now().UTC().Format(time.RFC3339), g.retention)
	if err != nil {
		g.Log.Error("redisDedupeGuard.MarkProcessed error calling redisRepo.TrySetNX",
			zap.String(constvars.LoggingRedisKey, dedupeKey),
			zap.Error(err),
		)
		return false, err
	}

	if !claimed {
		g.Log.Info("redisDedupeGuard.MarkProcessed duplicate delivery suppressed",
			zap.String(constvars.LoggingRedisKey, dedupeKey),
		)
	}
	return claimed, nil
}

// Release drops a claim so a failed event can be redelivered and retried.
func (g *redisDedupeGuard) Release(ctx context.Context, dedupeKey string) error {
	return g.redisRepo.Delete(ctx, keyPrefix+dedupeKey)
}
