//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"deepthinker-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideThoughtRepository,
	ProvideCanvasRepository,
	ProvideUserRepository,
	ProvideCreditLedger,
	ProvideQuotaLedger,
	ProvideEventPublisher,
	ProvideCompletionService,
	ProvideMetrics,
	ProvideTracer,
	ProvideLayoutEngine,
	ProvideLayoutService,
	ProvideJWTValidator,
	ProvideIPRateLimiter,
	ProvideUserRateLimiter,
	ProvideInMemoryCache,
	ProvideHandlers,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // replaced by wire
}
