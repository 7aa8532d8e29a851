package middlewares

import (
	"sync"

	"healthlake-pipeline/internal/app/config"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
}

var (
	middlewaresInstance *Middlewares
	onceMiddlewares     sync.Once
)

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig) *Middlewares {
	onceMiddlewares.Do(func() {
		instance := &Middlewares{
			Log:            logger,
			InternalConfig: internalConfig,
		}
		middlewaresInstance = instance
	})
	return middlewaresInstance
}
