//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"eventbase/application/ports"
	"eventbase/application/services"
	"eventbase/infrastructure/config"
	"eventbase/infrastructure/messaging"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideMetrics,
	ProvideStreamStore,
	ProvideUserRepository,
	ProvideNotificationRepository,
	ProvideDispatcher,
	ProvideEventService,
	ProvideJWTValidator,
	ProvideTokenIssuer,
	ProvideSubscriptions,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Bind(new(ports.Dispatcher), new(*messaging.Dispatcher)),
	wire.Bind(new(ports.EventAppender), new(*services.EventService)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
